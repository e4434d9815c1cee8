package dataindex

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// decodeIOConfig parses an io_config blob. The schema stores the text
// unchecked, so malformed or non-object JSON only surfaces here.
func decodeIOConfig(raw datatypes.JSON, owner string) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, ErrConfig.New("io_config of %s is not a JSON object", owner)
	}
	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, ErrConfig.New("io_config of %s: %v", owner, err)
	}
	return out, nil
}

// EncodeIOConfig renders cfg as an io_config blob. A nil map yields NULL.
func EncodeIOConfig(cfg map[string]any) (datatypes.JSON, error) {
	if cfg == nil {
		return nil, nil
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}
	return datatypes.JSON(b), nil
}
