package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Layout は保存先ディレクトリの割り当てを担います。
// AllocateStoryDir はミューテックスで直列化されるため、並行に呼ばれても
// 同じ story_N が二重に割り当てられることはありません。
type Layout struct {
	baseDir string
	mu      sync.Mutex
}

// NewLayout は baseDir を起点とする Layout を生成します。
func NewLayout(baseDir string) *Layout {
	return &Layout{baseDir: baseDir}
}

// BaseDir は保存の起点ディレクトリを返します。
func (l *Layout) BaseDir() string {
	return l.baseDir
}

// EnsureBaseDir は起点ディレクトリを（なければ）作成します。
func (l *Layout) EnsureBaseDir() error {
	if err := os.MkdirAll(l.baseDir, 0o755); err != nil {
		return fmt.Errorf("保存ディレクトリの作成に失敗しました (%s): %w", l.baseDir, err)
	}
	return nil
}

// AllocateStoryDir は baseDir 配下に未使用の story_N ディレクトリを
// 作成して返します。N は 1 から始まり、既存の番号を飛ばして
// 最初の空き番号が使われます。
func (l *Layout) AllocateStoryDir() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.EnsureBaseDir(); err != nil {
		return "", err
	}

	for n := 1; ; n++ {
		candidate := filepath.Join(l.baseDir, fmt.Sprintf("story_%d", n))
		if _, err := os.Stat(candidate); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("保存ディレクトリの確認に失敗しました (%s): %w", candidate, err)
		}
		if err := os.Mkdir(candidate, 0o755); err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", fmt.Errorf("物語ディレクトリの作成に失敗しました (%s): %w", candidate, err)
		}
		return candidate, nil
	}
}
