package session

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/viper"
)

// Key is the config key the serialized session is stored under.
const Key = "token"

// ViperPersister stores the session as a JSON string in a viper config file.
// Save writes the file through the supplied write func so callers control
// file creation.
type ViperPersister struct {
	V     *viper.Viper
	Write func() error
}

func (p *ViperPersister) Load() (State, error) {
	raw := p.V.GetString(Key)
	if raw == "" {
		return State{}, nil
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("decode %q: %w", Key, err)
	}
	return st, nil
}

func (p *ViperPersister) Save(st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	p.V.Set(Key, string(raw))
	if p.Write == nil {
		return nil
	}
	return p.Write()
}
