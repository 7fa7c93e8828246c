// Nodeflow CLI — выполнение графов локально и управление
// сохранёнными графами и runs через HTTP API.
//
// Использование:
//
//	nodeflow [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	exec      Выполнить файл графа локально
//	validate  Проверить файл графа
//	order     Показать порядок выполнения
//	graph     Управление графами
//	run       Управление runs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Nodeflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
