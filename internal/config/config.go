// internal/config/config.go
package config

type Config struct {
	Outboard OutboardConfig `yaml:"outboard"`
}

type OutboardConfig struct {
	RunID    string         `yaml:"run_id" env:"OUTBOARD_RUN_ID"`
	Artifact ArtifactConfig `yaml:"artifact"`
	Host     HostConfig     `yaml:"host"`
	Policy   PolicyConfig   `yaml:"policy"`
	Journal  JournalConfig  `yaml:"journal"`
}

// ---- ARTIFACT ----

type ArtifactConfig struct {
	Path string `yaml:"path" env:"OUTBOARD_ARTIFACT_PATH"`
	Mode string `yaml:"mode" env:"OUTBOARD_ARTIFACT_MODE"` // append | replace
}

// ---- HOST ----

const (
	HostStream = "stream"
	HostModbus = "modbus"
)

type HostConfig struct {
	Kind   string       `yaml:"kind" env:"OUTBOARD_HOST_KIND"`
	Stream StreamConfig `yaml:"stream"`
	Modbus ModbusConfig `yaml:"modbus"`
}

// StreamConfig paths; "-" means stdin / stdout.
type StreamConfig struct {
	Input  string `yaml:"input" env:"OUTBOARD_STREAM_INPUT"`
	Status string `yaml:"status" env:"OUTBOARD_STREAM_STATUS"`
}

type ModbusConfig struct {
	Endpoint  string `yaml:"endpoint" env:"OUTBOARD_MODBUS_ENDPOINT"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	PollMs    int    `yaml:"poll_ms"`

	CounterRegister uint16 `yaml:"counter_register"`
	StatusRegister  uint16 `yaml:"status_register"`
	TimeRegister    uint16 `yaml:"time_register"`

	Wells []ModbusWellConfig `yaml:"wells"`
}

// ModbusWellConfig maps one well onto BHP, STO, STG float32 pairs
// starting at BaseRegister.
type ModbusWellConfig struct {
	Name         string `yaml:"name"`
	BaseRegister uint16 `yaml:"base_register"`
}

// ---- POLICY ----

// PolicyConfig thresholds are optional; nil means default.
type PolicyConfig struct {
	Wells       []string `yaml:"wells" env:"OUTBOARD_POLICY_WELLS" envSeparator:","`
	GORLimit    *float64 `yaml:"gor_limit"`
	STOLimit    *float64 `yaml:"sto_limit"`
	ChokeFactor *float64 `yaml:"choke_factor"`
	BHPCap      *float64 `yaml:"bhp_cap"`
}

// ---- JOURNAL ----

type JournalConfig struct {
	Path string `yaml:"path" env:"OUTBOARD_JOURNAL_PATH"` // empty disables
}
