package publisher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-story-kit/pkg/domain"
)

// SaveImage は生成結果のペイロードを dir 配下へ書き出し、
// 結果の LocalPath を更新します。書き込みの失敗は SAVE_ERROR です。
func SaveImage(result *domain.GenerationResult, dir string) error {
	if !result.Downloaded() {
		return domain.NewError(domain.ErrSave, "保存できる画像データがありません（ダウンロード前か、取得に失敗しています）")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewErrorWithDetails(domain.ErrSave,
			fmt.Sprintf("保存ディレクトリの作成に失敗しました: %v", err), map[string]any{"dir": dir})
	}

	name := MakeFilename(result.Prompt, result.GenerationID, result.Timestamp)
	fullPath := filepath.Join(dir, name)

	if err := os.WriteFile(fullPath, result.Payload, 0o644); err != nil {
		return domain.NewErrorWithDetails(domain.ErrSave,
			fmt.Sprintf("画像ファイルの書き込みに失敗しました: %v", err), map[string]any{"path": fullPath})
	}

	result.LocalPath = fullPath
	slog.Info("画像を保存しました", "path", fullPath, "bytes", len(result.Payload))
	return nil
}

// SaveNarration はシーンのナレーション音声を dir 配下へ書き出し、
// シーンの AudioPath を更新します。
func SaveNarration(scene *domain.StoryScene, audio []byte, dir string) error {
	if len(audio) == 0 {
		return domain.NewError(domain.ErrSave, "保存できる音声データがありません")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewErrorWithDetails(domain.ErrSave,
			fmt.Sprintf("保存ディレクトリの作成に失敗しました: %v", err), map[string]any{"dir": dir})
	}

	fullPath := filepath.Join(dir, NarrationFilename(scene))
	if err := os.WriteFile(fullPath, audio, 0o644); err != nil {
		return domain.NewErrorWithDetails(domain.ErrSave,
			fmt.Sprintf("音声ファイルの書き込みに失敗しました: %v", err), map[string]any{"path": fullPath})
	}

	scene.AudioPath = fullPath
	slog.Info("ナレーションを保存しました", "path", fullPath, "scene", scene.SceneNumber)
	return nil
}
