package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	OutputDir  string
	InboxDir   string
	RawMailDir string

	MaxQty         int
	UnitTokens     []string
	VocabPath      string
	PreferredSheet string

	DescriptionAliases []string
	AnalysisAliases    []string
	StateAliases       []string
	RequesterAliases   []string
	ReasonAliases      []string
	DateAliases        []string

	ProcessWorkers int

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	WatcherProvider     string
	WatcherLabel        string
	WatcherIntervalSec  int
	WatcherFetchMax     int
	WatcherProcessBatch int
	WatcherAutoExport   bool
	WatcherFetchMail    bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "pedidos.db")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		InboxDir:   getEnv("INBOX_DIR", filepath.Join(cwd, "data", "inbox")),
		RawMailDir: getEnv("RAW_MAIL_DIR", filepath.Join(cwd, "data", "raw")),

		MaxQty:         getEnvInt("MAX_QTY", 5000),
		UnitTokens:     getEnvList("UNIT_TOKENS", []string{"UN", "UNID", "UND", "UNIDADE", "UNIDADES"}),
		VocabPath:      getEnv("VOCAB_PATH", ""),
		PreferredSheet: getEnv("PREFERRED_SHEET", "Respostas do Formulário 1"),

		DescriptionAliases: getEnvList("COLUMN_DESCRIPTION", []string{
			"CODIGO DO PRODUTO, QUANTIDADE E PREÇO SOLICITADO:",
			"CODIGO DO PRODUTO,  QUANTIDADE E PREÇO SOLICITADO:",
			"DESCRIÇÃO",
			"DESCRICAO",
		}),
		AnalysisAliases:  getEnvList("COLUMN_ANALYSIS", []string{"ANALISE NEGOCIAÇÃO", "ANALISE NEGOCIACAO"}),
		StateAliases:     getEnvList("COLUMN_STATE", []string{"ESTADO:", "ESTADO", "UF CLIENTE", "UF"}),
		RequesterAliases: getEnvList("COLUMN_REQUESTER", []string{"SOLICITANTE:", "SOLICITANTE", "SOLICITANTES:"}),
		ReasonAliases:    getEnvList("COLUMN_REASON", []string{"MOTIVO:", "MOTIVO"}),
		DateAliases:      getEnvList("COLUMN_DATE", []string{"Data", "DATA", "Carimbo de data/hora", "Timestamp"}),

		ProcessWorkers: getEnvInt("PROCESS_WORKERS", 4),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		WatcherProvider:     getEnv("WATCHER_PROVIDER", "imap"),
		WatcherLabel:        getEnv("WATCHER_LABEL", "INBOX"),
		WatcherIntervalSec:  getEnvInt("WATCHER_INTERVAL_SEC", 30),
		WatcherFetchMax:     getEnvInt("WATCHER_FETCH_MAX", 20),
		WatcherProcessBatch: getEnvInt("WATCHER_PROCESS_BATCH", 20),
		WatcherAutoExport:   getEnvBool("WATCHER_AUTO_EXPORT", true),
		WatcherFetchMail:    getEnvBool("WATCHER_FETCH_MAIL", false),
	}

	if cfg.MaxQty <= 0 {
		return Config{}, fmt.Errorf("MAX_QTY must be positive, got %d", cfg.MaxQty)
	}
	if len(cfg.DescriptionAliases) == 0 {
		return Config{}, fmt.Errorf("COLUMN_DESCRIPTION must list at least one header alias")
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
