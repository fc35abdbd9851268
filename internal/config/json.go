package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON keys and
// string-friendly durations.
type StructuredJSONConfig struct {
	Paths struct {
		Dir            string `json:"dir"`
		KeyFile        string `json:"key_file"`
		SaltFile       string `json:"salt_file"`
		DataFile       string `json:"data_file"`
		EncodingsFile  string `json:"encodings_file"`
		ReferenceImage string `json:"reference_image"`
	} `json:"paths,omitempty"`

	Auth struct {
		Tolerance                  float64  `json:"tolerance"`
		MaxAttempts                int      `json:"max_attempts"`
		Timeout                    Duration `json:"timeout"`
		RequiredConsecutiveMatches int      `json:"required_matches"`
		TickInterval               Duration `json:"tick_interval"`
	} `json:"auth,omitempty"`

	Security struct {
		KDF              string `json:"kdf"`
		PBKDF2Iterations int    `json:"pbkdf2_iterations"`
		ShredPasses      int    `json:"shred_passes"`
		BackupRetention  int    `json:"backup_retention"`
	} `json:"security,omitempty"`

	Storage struct {
		AuditDSN string `json:"audit_dsn"`
	} `json:"storage,omitempty"`

	Capture struct {
		Command    string `json:"command"`
		FramesFile string `json:"frames_file"`
	} `json:"capture,omitempty"`

	Log struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Paths: Paths{
			Dir:            jsonCfg.Paths.Dir,
			KeyFile:        jsonCfg.Paths.KeyFile,
			SaltFile:       jsonCfg.Paths.SaltFile,
			DataFile:       jsonCfg.Paths.DataFile,
			EncodingsFile:  jsonCfg.Paths.EncodingsFile,
			ReferenceImage: jsonCfg.Paths.ReferenceImage,
		},
		Auth: Auth{
			Tolerance:                  jsonCfg.Auth.Tolerance,
			MaxAttempts:                jsonCfg.Auth.MaxAttempts,
			Timeout:                    time.Duration(jsonCfg.Auth.Timeout),
			RequiredConsecutiveMatches: jsonCfg.Auth.RequiredConsecutiveMatches,
			TickInterval:               time.Duration(jsonCfg.Auth.TickInterval),
		},
		Security: Security{
			KDF:              jsonCfg.Security.KDF,
			PBKDF2Iterations: jsonCfg.Security.PBKDF2Iterations,
			ShredPasses:      jsonCfg.Security.ShredPasses,
			BackupRetention:  jsonCfg.Security.BackupRetention,
		},
		Storage: Storage{
			AuditDSN: jsonCfg.Storage.AuditDSN,
		},
		Capture: Capture{
			Command:    jsonCfg.Capture.Command,
			FramesFile: jsonCfg.Capture.FramesFile,
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
			File:  jsonCfg.Log.File,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "10s", "100ms"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
