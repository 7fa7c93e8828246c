package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Nodeflow/internal/domain"
	"github.com/shaiso/Nodeflow/internal/nodes"
	"github.com/shaiso/Nodeflow/internal/telemetry"
)

// Executor выполняет графы: валидация → порядок → вычисление узлов.
//
// Executor не хранит состояния между вызовами и безопасен для
// одновременного использования из нескольких горутин.
type Executor struct {
	observer    nodes.Observer
	logger      *slog.Logger
	parallelism int
}

// Option настраивает Executor.
type Option func(*Executor)

// WithObserver задаёт наблюдателя для значений log-узлов.
func WithObserver(obs nodes.Observer) Option {
	return func(e *Executor) {
		e.observer = obs
	}
}

// WithLogger задаёт логгер. По умолчанию используется логгер из контекста.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithParallelism включает параллельное вычисление узлов одной волны.
// n <= 1 означает последовательное выполнение.
//
// В параллельном режиме наблюдатель получает записи волны после её
// завершения; набор и порядок записей те же, что и без параллелизма.
func WithParallelism(n int) Option {
	return func(e *Executor) {
		e.parallelism = n
	}
}

// New создаёт Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		observer:    nodes.Discard,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.observer == nil {
		e.observer = nodes.Discard
	}
	return e
}

// Execute выполняет граф с настройками по умолчанию и заданными опциями.
func Execute(ctx context.Context, g domain.Graph, opts ...Option) (*domain.Result, error) {
	return New(opts...).Execute(ctx, g)
}

// Execute выполняет граф.
//
// Ошибки валидации возвращаются как есть, до вычисления первого узла.
// Ошибка узла прерывает выполнение и оборачивается в *NodeError;
// частичный результат не возвращается. Контекст проверяется перед
// каждым узлом.
func (e *Executor) Execute(ctx context.Context, g domain.Graph) (*domain.Result, error) {
	logger := e.logger
	if logger == nil {
		logger = telemetry.FromContext(ctx)
	}

	start := time.Now()
	res, err := e.execute(ctx, logger, g)
	elapsed := time.Since(start)

	if err != nil {
		kind := ErrorKind(err)
		telemetry.ObserveExecution(kind, elapsed)
		logger.InfoContext(ctx, "graph execution failed",
			"nodes", len(g.Nodes),
			"error_kind", kind,
			"error", err,
			"duration", elapsed,
		)
		return nil, err
	}

	telemetry.ObserveExecution("ok", elapsed)
	logger.InfoContext(ctx, "graph executed",
		"nodes", len(g.Nodes),
		"sinks", len(res.Final),
		"duration", elapsed,
	)
	return res, nil
}

func (e *Executor) execute(ctx context.Context, logger *slog.Logger, g domain.Graph) (*domain.Result, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}

	dag, err := BuildDAG(g)
	if err != nil {
		return nil, err
	}

	// outputs[i] — выходы узла с индексом i
	outputs := make([]domain.PortValues, dag.Size())

	if e.parallelism > 1 {
		err = e.runLevels(ctx, logger, dag, outputs)
	} else {
		err = e.runSequential(ctx, logger, dag, outputs)
	}
	if err != nil {
		return nil, err
	}

	return collect(dag, outputs), nil
}

// runSequential вычисляет узлы по одному в порядке выполнения.
func (e *Executor) runSequential(ctx context.Context, logger *slog.Logger, dag *DAG, outputs []domain.PortValues) error {
	for _, node := range dag.Order {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := e.evalNode(ctx, logger, dag, node, outputs, e.observer)
		if err != nil {
			return err
		}
		outputs[node.Index] = out
	}
	return nil
}

// runLevels вычисляет волны по очереди, узлы одной волны — параллельно.
//
// Каждая горутина пишет только в свой слот, выходы волны переносятся
// в outputs после её завершения. Порядок выполнения идёт волна за волной,
// поэтому первая упавшая волна содержит первый упавший узел; возвращается
// ошибка того из них, что стоит раньше в порядке. Записи log-узлов волны
// копятся и передаются наблюдателю после волны, в порядке выполнения и
// только для узлов до упавшего, как при последовательном выполнении.
func (e *Executor) runLevels(ctx context.Context, logger *slog.Logger, dag *DAG, outputs []domain.PortValues) error {
	for _, level := range dag.Levels() {
		if err := ctx.Err(); err != nil {
			return err
		}

		results := make([]domain.PortValues, len(level))
		errs := make([]error, len(level))
		buffers := make([]sinkBuffer, len(level))

		var g errgroup.Group
		g.SetLimit(e.parallelism)

		for i, node := range level {
			g.Go(func() error {
				results[i], errs[i] = e.evalNode(ctx, logger, dag, node, outputs, &buffers[i])
				return nil
			})
		}
		_ = g.Wait()

		failed := len(level)
		for i := range level {
			if errs[i] != nil {
				failed = i
				break
			}
		}

		for i := 0; i < failed; i++ {
			for _, rec := range buffers[i] {
				e.observer.Observe(ctx, rec)
			}
			if results[i] != nil {
				outputs[level[i].Index] = results[i]
			}
		}
		if failed < len(level) {
			return errs[failed]
		}
	}
	return nil
}

// sinkBuffer копит записи log-узла до конца волны.
type sinkBuffer []nodes.SinkRecord

// Observe добавляет запись в буфер.
func (b *sinkBuffer) Observe(_ context.Context, rec nodes.SinkRecord) {
	*b = append(*b, rec)
}

// evalNode разрешает входы узла и вычисляет его.
func (e *Executor) evalNode(ctx context.Context, logger *slog.Logger, dag *DAG, node *Node, outputs []domain.PortValues, obs nodes.Observer) (domain.PortValues, error) {
	kind := string(node.Def.Kind())
	in := resolveInputs(dag, node, outputs)

	out, err := nodes.Evaluate(ctx, node.Def, in, obs)
	telemetry.ObserveNode(kind, err)
	if err != nil {
		return nil, &NodeError{NodeID: node.ID, Kind: kind, Err: err}
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		telemetry.WithNodeID(logger, node.ID, kind).DebugContext(ctx, "node evaluated",
			"inputs", len(in),
			"outputs", len(out),
		)
	}
	return out, nil
}

// resolveInputs собирает входы узла из выходов источников.
// Рёбра применяются в порядке DAG.Incoming, последнее значение в порт побеждает.
// Порт источника без значения не заполняет вход.
func resolveInputs(dag *DAG, node *Node, outputs []domain.PortValues) domain.PortValues {
	in := make(domain.PortValues, len(node.In))
	for _, edge := range dag.Incoming(node) {
		if v, ok := outputs[edge.From][edge.FromPort]; ok {
			in[edge.ToPort] = v
		}
	}
	return in
}

// collect собирает Result из выходов узлов.
func collect(dag *DAG, outputs []domain.PortValues) *domain.Result {
	res := &domain.Result{
		Order:   dag.OrderIDs(),
		Outputs: make(map[string]domain.PortValues, dag.Size()),
		Final:   make(map[string]domain.PortValues),
	}

	for _, node := range dag.Order {
		out := outputs[node.Index]
		if out == nil {
			out = domain.PortValues{}
		}
		res.Outputs[node.ID] = out

		if len(node.Out) == 0 {
			final := make(domain.PortValues, len(out))
			for port, v := range out {
				final[port] = v
			}
			res.Final[node.ID] = final
		}
	}
	return res
}
