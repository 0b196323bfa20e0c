package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pedidos/internal"
	"pedidos/internal/config"
	"pedidos/internal/connectors"
	gmailconnector "pedidos/internal/connectors/gmail"
	imapconnector "pedidos/internal/connectors/imap"
	"pedidos/internal/ingest"
	"pedidos/internal/normalize"
	"pedidos/internal/pipeline"
	"pedidos/internal/storage"
	"pedidos/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	vocab, err := normalize.Load(cfg.VocabPath)
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	// The one-shot run command works without a database.
	if cmd == "run" {
		runOneShot(cfg, vocab, os.Args[2:])
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	switch cmd {
	case "import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "input file (.xlsx .xls .html .htm .eml .pdf .txt)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		subs, err := ingest.FromFile(*file, cfg)
		must(err)
		for _, sub := range subs {
			_, err := db.UpsertSubmission(sub, *file)
			must(err)
		}
		fmt.Printf("imported %d submissions from %s\n", len(subs), *file)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "imap", "imap|gmail")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg, conn)
		result, err := fetch.FetchAndImport(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d orders=%d submissions=%d\n",
			*provider, result.Fetched, result.Orders, result.Submissions)
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", 100, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg, vocab)
		result, err := processor.ProcessPending(*batch)
		must(err)
		fmt.Printf("processed submissions=%d items=%d\n", result.Submissions, result.Items)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "pedidos.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		rows, err := db.GetCanonicalRows()
		must(err)
		must(pipeline.ExportRowsToXLSX(rows, *out))
		_, err = db.MarkProcessedExported()
		must(err)
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "report:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "relatorio.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		report, err := pipeline.BuildReport(db)
		must(err)
		must(pipeline.ExportReportToXLSX(report, *out))
		fmt.Printf("report written to %s\n", *out)
	case "watch":
		svc := watcher.NewService(db, cfg, vocab)
		must(svc.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

// runOneShot extracts one input straight to a workbook, bypassing the
// database entirely.
func runOneShot(cfg config.Config, vocab normalize.Vocabulary, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", "", "input file path, or raw text with --type=text")
	inType := fs.String("type", "", "file|text")
	output := fs.String("output", "", "output xlsx path")
	_ = fs.Parse(args)
	if *input == "" || *output == "" {
		must(fmt.Errorf("--input and --output are required"))
	}

	var subs []internal.Submission
	var err error
	switch *inType {
	case "text":
		subs = ingest.FromText(*input)
	case "file", "":
		subs, err = ingest.FromFile(*input, cfg)
		must(err)
	default:
		must(fmt.Errorf("unsupported input type: %s", *inType))
	}

	extractor := pipeline.NewExtractor(cfg, vocab)
	rows := []internal.CanonicalRow{}
	for _, sub := range subs {
		rows = append(rows, extractor.Rows(sub)...)
	}
	must(pipeline.ExportRowsToXLSX(rows, *output))
	fmt.Printf("run done rows=%d output=%s\n", len(rows), *output)
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: pedidos <command>")
	fmt.Println("commands:")
	fmt.Println("  import --file=./respostas.xlsx")
	fmt.Println("  mail:fetch --provider=imap|gmail --label=INBOX --max=50")
	fmt.Println("  process [--batch=100]")
	fmt.Println("  export:xlsx [--out=./out/pedidos.xlsx]")
	fmt.Println("  report:xlsx [--out=./out/relatorio.xlsx]")
	fmt.Println("  watch")
	fmt.Println("  run --input=... [--type=file|text] --output=...xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
