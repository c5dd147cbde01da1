package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-story-kit/internal/config"
	"github.com/shouni/go-story-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// storyCmd は、ひとつの物語プロンプトから連作画像を一括生成するのだ！
var storyCmd = &cobra.Command{
	Use:   "story [prompt]",
	Short: "物語をシーンに分解して、連作画像を一括生成するのだ！",
	Long: `物語のプロンプトをAIがシーン列に分解し、各シーンの画像を順番に生成するのだ。
途中のシーンが失敗しても止まらず、最後に成功率つきのまとめを表示するのだよ。
--narrate を付けると、各シーンのナレーション音声も作るのだ。`,
	Example: "  story-kit-go story \"a fox's journey through the seasons\" --scenes 5 --narrate",
	Args:    cobra.ExactArgs(1),
	RunE:    storyCommand,
}

// init は、story コマンド固有のフラグを定義するのだ。
func init() {
	storyCmd.Flags().IntVarP(&opts.SceneCount, "scenes", "n", config.DefaultSceneCount, "生成するシーン数なのだ（最大10）。")
	storyCmd.Flags().BoolVar(&opts.WithNarration, "narrate", false, "各シーンのナレーション音声を合成するのだ。")
	storyCmd.Flags().StringVar(&opts.Voice, "voice", config.DefaultVoice, "ナレーションの声なのだ（alloy / echo / fable / onyx / nova / shimmer）。")
	storyCmd.Flags().Float64Var(&opts.NarrationSpeed, "speed", config.DefaultNarrationSpeed, "ナレーションの再生速度なのだ（0.25〜4.0）。")
}

// storyCommand は、story サブコマンドの実行ロジック本体なのだ。
func storyCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts.StoryPrompt = strings.TrimSpace(args[0])

	// 1. シーン数とモデル設定はネットワークに触れる前にここで検証するのだ
	// --scenes 0 のような明示指定も既定値に置き換えず、そのまま弾くのだ
	if opts.SceneCount < 1 || opts.SceneCount > config.MaxSceneCount {
		return fmt.Errorf("シーン数は 1〜%d の範囲で指定してください: %d", config.MaxSceneCount, opts.SceneCount)
	}
	if err := config.ValidateOptions(opts); err != nil {
		return err
	}

	// 2. 設定のロードとフラグの反映
	cfg := config.LoadConfig()
	cfg.Options = opts
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}

	slog.Info("物語生成モードを起動するのだ！",
		"scenes", opts.SceneCount, "narration", opts.WithNarration, "save", opts.AutoSave())

	// 3. パイプライン実行（物語の一括生成なのだ！）
	result, err := pipeline.ExecuteStory(ctx, cfg)
	if err != nil {
		return reportFailure(err)
	}

	displayStorySummary(result, opts.Verbose)
	slog.Info("完了なのだ！物語が絵になったのだよ。")
	return nil
}
