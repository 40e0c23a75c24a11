package conf

// TxConfig carries the transaction core's tunables (spec.md §6), loaded
// from the same ini.v1-backed configuration file as the rest of Cfg.
type TxConfig struct {
	MaxClients        int    `default:"100" yaml:"max_clients" json:"max_clients,omitempty"`
	DefaultIsolation  string `default:"repeatable-read" yaml:"default_isolation" json:"default_isolation,omitempty"`
	DefaultLockWaitMs int    `default:"-1" yaml:"default_lock_wait_ms" json:"default_lock_wait_ms,omitempty"`
	CommitOnShutdown  bool   `default:"false" yaml:"commit_on_shutdown" json:"commit_on_shutdown,omitempty"`
	ReadOnlyMode      bool   `default:"false" yaml:"read_only_mode" json:"read_only_mode,omitempty"`
	LogUniqueStats    bool   `default:"false" yaml:"log_unique_stats" json:"log_unique_stats,omitempty"`
	TestMode          bool   `default:"false" yaml:"test_mode" json:"test_mode,omitempty"`
}

// NewTxConfig returns the documented defaults (spec.md §6).
func NewTxConfig() *TxConfig {
	return &TxConfig{
		MaxClients:        100,
		DefaultIsolation:  "repeatable-read",
		DefaultLockWaitMs: -1,
	}
}

// LoadTxConfig reads the [transaction] section of cfg's underlying ini
// file, falling back to NewTxConfig's defaults for anything absent.
func LoadTxConfig(cfg *Cfg) *TxConfig {
	tc := NewTxConfig()
	if cfg == nil || cfg.Raw == nil {
		return tc
	}
	section := cfg.Raw.Section("transaction")
	if section == nil {
		return tc
	}
	if v := section.Key("max_clients"); v.String() != "" {
		if n, err := v.Int(); err == nil {
			tc.MaxClients = n
		}
	}
	if v := section.Key("default_isolation"); v.String() != "" {
		tc.DefaultIsolation = v.String()
	}
	if v := section.Key("default_lock_wait_ms"); v.String() != "" {
		if n, err := v.Int(); err == nil {
			tc.DefaultLockWaitMs = n
		}
	}
	if v := section.Key("commit_on_shutdown"); v.String() != "" {
		tc.CommitOnShutdown, _ = v.Bool()
	}
	if v := section.Key("read_only_mode"); v.String() != "" {
		tc.ReadOnlyMode, _ = v.Bool()
	}
	if v := section.Key("log_unique_stats"); v.String() != "" {
		tc.LogUniqueStats, _ = v.Bool()
	}
	if v := section.Key("test_mode"); v.String() != "" {
		tc.TestMode, _ = v.Bool()
	}
	return tc
}
