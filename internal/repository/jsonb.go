package repository

import (
	"encoding/json"
	"fmt"
)

// marshalJSONB はJSONBカラムへの書き込み用に値をエンコードする。
// nilスライス/マップはSQLのDEFAULTと揃えるためemptyで指定した
// 空コレクション（"[]"または"{}"）として書き込む。
func marshalJSONB(v any, empty string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}
	if string(data) == "null" {
		return []byte(empty), nil
	}
	return data, nil
}

// unmarshalJSONB はJSONBカラムから読み出したバイト列をデコードする。
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb value: %w", err)
	}
	return nil
}
