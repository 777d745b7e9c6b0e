package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/worktally/internal/cli"
	"github.com/alexanderramin/worktally/internal/config"
	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/alexanderramin/worktally/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file, then env overrides
	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	repos := repository.NewSQLiteRepos(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:   service.NewProjectService(repos.Projects, repos.Settings),
		Entries:    service.NewTimeEntryService(repos.Projects, repos.Entries, uow, observers...),
		Payouts:    service.NewPayoutService(repos.Payouts, repos.Entries, repos.CashFlows, uow, observers...),
		CashFlows:  service.NewCashFlowService(repos.CashFlows, uow, observers...),
		Config:     cfg,
		ConfigPath: cfgPath,
	}

	// Prompts only make sense on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
