package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"fleet_tracker/pkg/client"
)

// loadSession 檔案不存在時視為尚未登入
func loadSession(path string) (client.Tokens, error) {
	var tokens client.Tokens
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return tokens, nil
	}
	if err != nil {
		return tokens, err
	}
	err = json.Unmarshal(data, &tokens)
	return tokens, err
}

// saveSession 登出後 token 為空，直接刪除檔案
func saveSession(path string, tokens client.Tokens) error {
	if tokens == (client.Tokens{}) {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
