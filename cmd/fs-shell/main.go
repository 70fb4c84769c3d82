package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"FlowScope/internal/ai"
	"FlowScope/internal/alerter"
	"FlowScope/internal/config"
	"FlowScope/internal/engine"
	"FlowScope/internal/export"
	"FlowScope/internal/shell"
)

const prompt = "flowscope> "

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		loadPath   string
		execCmds   []string
	)

	cmd := &cobra.Command{
		Use:   "fs-shell",
		Short: "Interactive network-flow analysis shell",
		Long: "fs-shell loads a delimited flow table into an in-memory store and offers\n" +
			"filtering, reporting and detection commands over it. Run without flags for\n" +
			"an interactive session; use --exec to run commands in batch.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, loadPath, execCmds)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	cmd.Flags().StringVarP(&loadPath, "load", "l", "", "flow table to load and index at startup")
	cmd.Flags().StringArrayVarP(&execCmds, "exec", "e", nil, "command to execute instead of starting the interactive prompt (repeatable)")

	return cmd
}

func run(configPath, loadPath string, execCmds []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	eng := engine.New(cfg)

	alerts, err := alerter.New(cfg.Alerts)
	if err != nil {
		return fmt.Errorf("failed to set up alerting: %w", err)
	}
	eng.AttachAlerter(alerts)

	if cfg.AI.Enabled {
		analyzer, err := ai.NewFindingsAnalyzer(&cfg.AI)
		if err != nil {
			log.Printf("AI analysis unavailable: %v", err)
		} else {
			eng.AttachAnalyzer(analyzer)
		}
	}

	if cfg.Export.ClickHouse.Enabled {
		mirror, err := export.NewClickHouseWriter(cfg.Export.ClickHouse)
		if err != nil {
			log.Printf("ClickHouse mirror unavailable: %v", err)
		} else {
			defer mirror.Close()
			eng.AttachMirror(mirror)
		}
	}

	io := engine.WriterIO{Stdout: os.Stdout, Stderr: os.Stderr}
	sh := shell.New(eng, io)

	if loadPath != "" {
		eng.Load(loadPath, io)
		eng.BuildIndex(io)
	}

	if len(execCmds) > 0 {
		for _, c := range execCmds {
			if !sh.Execute(c) {
				break
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(prompt)
	for scanner.Scan() {
		if !sh.Execute(scanner.Text()) {
			break
		}
		fmt.Print(prompt)
	}
	return scanner.Err()
}
