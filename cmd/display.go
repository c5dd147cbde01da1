package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shouni/go-story-kit/pkg/domain"
)

// reportFailure は失敗をユーザー向けに整形して返すのだ。
// ドメインエラーなら対処のヒントも添えるのだ。Ctrl-C による中断は
// 慣例どおり 130 で終了するのだ。
func reportFailure(err error) error {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "中断されたのだ。")
		os.Exit(130)
	}

	if domErr, ok := domain.AsError(err); ok {
		if hint := domain.Remedy(domErr.Code); hint != "" {
			fmt.Fprintf(os.Stderr, "ヒント: %s\n", hint)
		}
	}
	return err
}

// displayResult は単発生成の結果を表示するのだ。
func displayResult(result *domain.GenerationResult, verbose bool) {
	fmt.Println("画像の生成に成功したのだ！")
	if result.RemoteURL != "" {
		fmt.Printf("  URL: %s\n", result.RemoteURL)
	}
	if result.Saved() {
		fmt.Printf("  保存先: %s (%d bytes)\n", result.LocalPath, result.FileSize())
	}

	if !verbose || result.Metadata == nil {
		return
	}
	meta := result.Metadata
	fmt.Println("  --- 詳細 ---")
	fmt.Printf("  生成ID: %s\n", result.GenerationID)
	fmt.Printf("  モデル: %s / サイズ: %s / 品質: %s / 画風: %s\n", meta.Model, meta.Size, meta.Quality, meta.Style)
	if meta.RevisedPrompt != "" {
		fmt.Printf("  改訂プロンプト: %s\n", meta.RevisedPrompt)
	}
	fmt.Printf("  生成時刻: %s\n", meta.CreatedAt.Format("2006-01-02 15:04:05"))
}

// displayStorySummary は物語生成のまとめを表示するのだ。
func displayStorySummary(result *domain.StoryResult, verbose bool) {
	fmt.Println("=== 物語生成のまとめなのだ ===")
	fmt.Printf("  物語: %s\n", result.StoryPrompt)
	fmt.Printf("  シーン: 成功 %d / 失敗 %d (成功率 %.1f%%)\n",
		len(result.CompletedScenes()), len(result.FailedScenes()), result.SuccessRate())
	fmt.Printf("  所要時間: %.1f秒\n", result.TotalSeconds)

	for _, scene := range result.Scenes {
		status := "✗"
		if scene.Generated() {
			status = "✓"
		}
		fmt.Printf("  [%s] シーン %d: %s\n", status, scene.SceneNumber, scene.Narrative)
		if !verbose {
			continue
		}
		if scene.Generated() && scene.Result.Saved() {
			fmt.Printf("       画像: %s\n", scene.Result.LocalPath)
		}
		if scene.HasAudio() {
			fmt.Printf("       音声: %s\n", scene.AudioPath)
		}
	}
}
