// Package worker забирает pending runs и передаёт их orchestrator'у.
//
// # Обзор
//
// Worker — stateless процесс. Runs приходят двумя путями:
//
//   - событие run.pending из очереди runs.pending (если задано соединение с RabbitMQ)
//   - polling таблицы runs (fallback на случай потерянных сообщений и рестартов)
//
// Оба пути вызывают RunProcessor.ProcessRun. Несколько воркеров могут
// работать одновременно: run, уже забранный другим процессом, пропускается.
//
//	w := worker.New(worker.Config{
//	    Processor: orch,
//	    Pending:   runRepo,
//	    Conn:      mqConn,
//	    Logger:    logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// # Ошибки
//
// Некорректное сообщение оборачивается в mq.ErrPermanent и уходит в DLQ.
// Ошибки хранилища возвращаются consumer'у, сообщение возвращается в очередь.
package worker
