package engine

import (
	"fmt"
	"sort"

	"github.com/shaiso/Nodeflow/internal/domain"
)

// Node — узел в DAG.
type Node struct {
	// Index — плотный индекс узла: позиция в списке узлов, отсортированном по ID.
	Index int

	// ID — идентификатор узла.
	ID string

	// Def — определение узла из графа.
	Def domain.Node

	// InDegree — количество входящих рёбер.
	InDegree int

	// In — индексы входящих рёбер в DAG.Edges.
	In []int

	// Out — индексы исходящих рёбер в DAG.Edges.
	Out []int

	// Position — позиция узла в порядке выполнения.
	Position int

	// Level — длина самого длинного пути от корня (волна выполнения).
	Level int
}

// Edge — ребро DAG с разрешёнными индексами узлов и каноническими портами.
type Edge struct {
	// Index — позиция ребра в исходном графе.
	Index int

	// ID — ID ребра или "#N", если ID пустой.
	ID string

	// From, To — индексы узлов.
	From, To int

	// FromPort, ToPort — канонические имена портов.
	FromPort, ToPort string
}

// DAG — направленный ациклический граф, построенный один раз на выполнение.
//
// Все связи хранятся индексами, строковые ID используются только
// для поиска узла снаружи (GetNode).
type DAG struct {
	// Nodes — все узлы, отсортированные по ID (Nodes[i].Index == i).
	Nodes []*Node

	// Edges — все рёбра в порядке исходного графа.
	Edges []Edge

	// RootNodes — узлы без входящих рёбер в порядке ID.
	RootNodes []*Node

	// Order — топологически отсортированный список узлов.
	Order []*Node

	byID map[string]int
}

// BuildDAG строит DAG из графа и вычисляет порядок выполнения.
//
// Ожидает граф, прошедший Validate; на ссылки на несуществующие узлы,
// неизвестные порты и циклы возвращает те же ошибки, что и Validate.
func BuildDAG(g domain.Graph) (*DAG, error) {
	dag := &DAG{
		Nodes: make([]*Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Edges)),
		byID:  make(map[string]int, len(g.Nodes)),
	}

	// Первый проход: создаём узлы в порядке ID
	defs := append([]domain.Node{}, g.Nodes...)
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })

	for _, def := range defs {
		if _, exists := dag.byID[def.ID]; exists {
			return nil, &ValidationError{NodeID: def.ID, Message: "duplicate node id", Err: ErrDuplicateNodeID}
		}
		node := &Node{Index: len(dag.Nodes), ID: def.ID, Def: def}
		dag.byID[def.ID] = node.Index
		dag.Nodes = append(dag.Nodes, node)
	}

	// Второй проход: связываем узлы рёбрами
	for i, e := range g.Edges {
		if err := dag.addEdge(i, e); err != nil {
			return nil, err
		}
	}

	dag.findRootNodes()

	order, err := dag.topologicalSort()
	if err != nil {
		return nil, err
	}
	dag.Order = order
	dag.computeLevels()

	return dag, nil
}

// addEdge разрешает концы ребра и добавляет его в DAG.
func (d *DAG) addEdge(i int, e domain.Edge) error {
	id := edgeLabel(i, e)

	from, ok := d.byID[e.Source]
	if !ok {
		return &ValidationError{EdgeID: id, End: EndSource, Message: fmt.Sprintf("unknown node %q", e.Source), Err: ErrDanglingReference}
	}
	to, ok := d.byID[e.Target]
	if !ok {
		return &ValidationError{EdgeID: id, End: EndTarget, Message: fmt.Sprintf("unknown node %q", e.Target), Err: ErrDanglingReference}
	}

	src, dst := d.Nodes[from], d.Nodes[to]

	fromPort, ok := src.Def.Settings().OutputPort(src.ID, e.SourceHandle)
	if !ok {
		return handleError(id, EndSource, src.Def, e.SourceHandle)
	}
	toPort, ok := dst.Def.Settings().InputPort(dst.ID, e.TargetHandle)
	if !ok {
		return handleError(id, EndTarget, dst.Def, e.TargetHandle)
	}

	d.Edges = append(d.Edges, Edge{
		Index:    i,
		ID:       id,
		From:     from,
		To:       to,
		FromPort: fromPort,
		ToPort:   toPort,
	})
	k := len(d.Edges) - 1

	src.Out = append(src.Out, k)
	dst.In = append(dst.In, k)
	dst.InDegree++
	return nil
}

// findRootNodes находит узлы без входящих рёбер.
func (d *DAG) findRootNodes() {
	d.RootNodes = make([]*Node, 0)
	for _, node := range d.Nodes {
		if node.InDegree == 0 {
			d.RootNodes = append(d.RootNodes, node)
		}
	}
}

// topologicalSort выполняет топологическую сортировку (алгоритм Кана)
// с FIFO-очередью готовых узлов. Корни стоят в начале очереди в порядке ID;
// узлы, ставшие готовыми после снятия одного узла, добавляются в конец
// очереди, тоже в порядке ID.
// Возвращает ErrCycleDetected, если упорядочить все узлы не удалось.
func (d *DAG) topologicalSort() ([]*Node, error) {
	// Копируем inDegree, чтобы не модифицировать узлы
	inDegree := make([]int, len(d.Nodes))
	queue := make([]int, 0, len(d.Nodes))
	for _, node := range d.Nodes {
		inDegree[node.Index] = node.InDegree
		if node.InDegree == 0 {
			queue = append(queue, node.Index)
		}
	}

	order := make([]*Node, 0, len(d.Nodes))

	for head := 0; head < len(queue); head++ {
		node := d.Nodes[queue[head]]
		node.Position = len(order)
		order = append(order, node)

		var ready []int
		for _, k := range node.Out {
			to := d.Edges[k].To
			inDegree[to]--
			if inDegree[to] == 0 {
				ready = append(ready, to)
			}
		}
		// Индексы упорядочены как ID
		sort.Ints(ready)
		queue = append(queue, ready...)
	}

	// Если не все узлы обработаны — есть цикл
	if len(order) != len(d.Nodes) {
		for _, node := range d.Nodes {
			if inDegree[node.Index] > 0 {
				return nil, &ValidationError{NodeID: node.ID, Message: "node cannot be ordered, graph has a cycle", Err: ErrCycleDetected}
			}
		}
		return nil, ErrCycleDetected
	}

	return order, nil
}

// computeLevels вычисляет для каждого узла длину самого длинного пути от корня.
func (d *DAG) computeLevels() {
	for _, node := range d.Order {
		for _, k := range node.In {
			from := d.Nodes[d.Edges[k].From]
			if from.Level+1 > node.Level {
				node.Level = from.Level + 1
			}
		}
	}
}

// Levels возвращает волны выполнения: узлы одной волны не зависят
// друг от друга. Внутри волны узлы идут в порядке выполнения.
func (d *DAG) Levels() [][]*Node {
	var levels [][]*Node
	for _, node := range d.Order {
		for len(levels) <= node.Level {
			levels = append(levels, nil)
		}
		levels[node.Level] = append(levels[node.Level], node)
	}
	return levels
}

// Sinks возвращает узлы без исходящих рёбер в порядке выполнения.
func (d *DAG) Sinks() []*Node {
	sinks := make([]*Node, 0)
	for _, node := range d.Order {
		if len(node.Out) == 0 {
			sinks = append(sinks, node)
		}
	}
	return sinks
}

// OrderIDs возвращает ID узлов в порядке выполнения.
func (d *DAG) OrderIDs() []string {
	ids := make([]string, len(d.Order))
	for i, node := range d.Order {
		ids[i] = node.ID
	}
	return ids
}

// Incoming возвращает входящие рёбра узла в порядке применения:
// по позиции источника в порядке выполнения, затем по позиции ребра в графе.
// При нескольких рёбрах в один порт побеждает последнее.
func (d *DAG) Incoming(node *Node) []Edge {
	edges := make([]Edge, len(node.In))
	for i, k := range node.In {
		edges[i] = d.Edges[k]
	}
	sort.SliceStable(edges, func(i, j int) bool {
		pi, pj := d.Nodes[edges[i].From].Position, d.Nodes[edges[j].From].Position
		if pi != pj {
			return pi < pj
		}
		return edges[i].Index < edges[j].Index
	})
	return edges
}

// GetNode возвращает узел по ID.
func (d *DAG) GetNode(id string) *Node {
	i, ok := d.byID[id]
	if !ok {
		return nil
	}
	return d.Nodes[i]
}

// Size возвращает количество узлов в DAG.
func (d *DAG) Size() int {
	return len(d.Nodes)
}

// Schedule возвращает порядок выполнения графа: ID узлов такие, что
// для каждого ребра u→v узел u стоит раньше v.
func Schedule(g domain.Graph) ([]string, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	dag, err := BuildDAG(g)
	if err != nil {
		return nil, err
	}
	return dag.OrderIDs(), nil
}
