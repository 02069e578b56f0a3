// Package session はサインイン・サインアップ・セッションタイムアウトを含む
// セッションライフサイクル全体を管理する。
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// activityFileName は最終アクティビティマーカーのファイル名。
const activityFileName = "dapup_last_activity"

// ActivityStore は最終アクティビティマーカーの永続化を抽象化する。
// マーカーが存在しない場合、セッションは期限切れとして扱われない。
type ActivityStore interface {
	// Touch はマーカーを指定時刻で書き換える。
	Touch(t time.Time) error
	// Last はマーカーの時刻を返す。第2戻り値はマーカーの存在を示す。
	Last() (time.Time, bool, error)
	// Clear はマーカーを削除する。存在しない場合もエラーにしない。
	Clear() error
}

// FileActivityStore はマーカーをファイルに永続化するActivityStore実装。
// エポックミリ秒の10進文字列を<stateDir>/dapup_last_activityへ書き込む。
type FileActivityStore struct {
	path string
}

// NewFileActivityStore はFileActivityStoreの新しいインスタンスを生成する。
// stateDirが存在しない場合は作成する。
func NewFileActivityStore(stateDir string) (*FileActivityStore, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &FileActivityStore{path: filepath.Join(stateDir, activityFileName)}, nil
}

var _ ActivityStore = (*FileActivityStore)(nil)

// Touch はマーカーを指定時刻で書き換える。
func (s *FileActivityStore) Touch(t time.Time) error {
	data := strconv.FormatInt(t.UnixMilli(), 10)
	if err := os.WriteFile(s.path, []byte(data), 0o600); err != nil {
		return fmt.Errorf("failed to write activity marker: %w", err)
	}
	return nil
}

// Last はマーカーの時刻を返す。マーカーが存在しない場合は(zero, false, nil)。
func (s *FileActivityStore) Last() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read activity marker: %w", err)
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid activity marker: %w", err)
	}
	return time.UnixMilli(millis), true, nil
}

// Clear はマーカーを削除する。
func (s *FileActivityStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove activity marker: %w", err)
	}
	return nil
}
