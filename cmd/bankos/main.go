package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oskern/bankos"
	"github.com/oskern/bankos/model"
	"github.com/oskern/bankos/service/report"
)

func main() {
	// optional .env file supplying the flag defaults below
	_ = godotenv.Load()

	configURL := flag.String("config", os.Getenv("BANKOS_CONFIG"), "configuration URL (yaml), empty for defaults")
	traceFile := flag.String("trace", os.Getenv("BANKOS_TRACE"), "trace output file, empty to disable tracing")
	flag.Parse()

	ctx := context.Background()
	config := bankos.DefaultConfig()
	if *configURL != "" {
		loaded, err := bankos.LoadConfig(ctx, *configURL)
		if err != nil {
			log.Fatalf("bankos: %v", err)
		}
		config = loaded
	}

	options := []bankos.Option{bankos.WithConfig(config)}
	if *traceFile != "" {
		options = append(options, bankos.WithTracing("bankos", "0.1.0", *traceFile))
	}
	srv, err := bankos.New(options...)
	if err != nil {
		log.Fatalf("bankos: %v", err)
	}

	if err := srv.CreateAccount(ctx, 1, decimal.NewFromInt(1000)); err != nil {
		log.Fatalf("bankos: create account: %v", err)
	}

	// two concurrent submitters, each queueing a deposit and a withdrawal
	var submitters sync.WaitGroup
	for i := 0; i < 2; i++ {
		submitters.Add(1)
		go func() {
			defer submitters.Done()
			submit(ctx, srv, model.KindDeposit, 1, decimal.NewFromInt(500))
			submit(ctx, srv, model.KindWithdraw, 1, decimal.NewFromInt(200))
		}()
	}
	submitters.Wait()

	if err := srv.RunScheduler(ctx); err != nil {
		log.Fatalf("bankos: run scheduler: %v", err)
	}

	// every queued transaction commits exactly one notification
	notifications := make([]model.Notification, 0, 4)
	for i := 0; i < 4; i++ {
		notifications = append(notifications, srv.AwaitNotification())
	}
	srv.StopScheduler()

	balance, err := srv.CheckBalance(1)
	if err != nil {
		log.Fatalf("bankos: check balance: %v", err)
	}
	fmt.Printf("Balance for account 1: %s\n\n", balance)
	fmt.Println(report.MemoryMap(srv.PageEntries()))
	fmt.Println(report.BalanceSheet(srv.Balances()))
	fmt.Println(report.Gantt(srv.History()))
	fmt.Println(report.ProcessTable(srv.ProcessEntries()))

	for _, notification := range notifications {
		fmt.Printf("Transaction complete: %s\n", notification)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("bankos: shutdown: %v", err)
	}
}

func submit(ctx context.Context, srv *bankos.Service, kind model.Kind, accountID int64, amount decimal.Decimal) {
	if _, err := srv.EnqueueTransaction(ctx, kind, accountID, amount); err != nil {
		log.Printf("bankos: enqueue %s: %v", kind, err)
	}
}
