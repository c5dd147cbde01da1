package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-story-kit/internal/config"
	"github.com/shouni/go-story-kit/internal/pipeline"
	"github.com/shouni/go-story-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// imageCmd は、単発のプロンプトから1枚の画像を生成するサブコマンドなのだ。
var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "プロンプトから1枚の画像を生成するのだ。",
	Long: `指定したプロンプトをAIに渡して画像を1枚生成するのだ。
生成結果は既定でローカルに保存されるのだ。--no-save で止められるのだよ。`,
	Example: "  story-kit-go image \"a cat sitting on the moon\" --quality hd",
	Args:    cobra.ExactArgs(1),
	RunE:    imageCommand,
}

// init は、image コマンド固有のフラグを定義するのだ。
func init() {
	imageCmd.Flags().StringVar(&qualityPreset, "preset", "", "品質プリセットなのだ（standard / high / fast）。個別フラグより優先されるのだ。")
}

// qualityPreset は --preset で指定される品質プリセット名なのだ。
var qualityPreset string

// imageCommand は、image サブコマンドの実行ロジック本体なのだ。
func imageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts.Prompt = strings.TrimSpace(args[0])

	// 1. プリセットが指定されていれば、個別フラグより優先して反映するのだ
	if qualityPreset != "" {
		preset, ok := domain.OptionsForQuality(qualityPreset)
		if !ok {
			return fmt.Errorf("未知の品質プリセットなのだ: %s (standard / high / fast が指定できるのだ)", qualityPreset)
		}
		opts.Model = preset.Model
		opts.Size = preset.Size
		opts.Quality = preset.Quality
		opts.Style = preset.Style
		opts.ResponseFormat = preset.ResponseFormat
	}

	// 2. モデルとオプションの組み合わせを検証するのだ
	if err := config.ValidateOptions(opts); err != nil {
		return err
	}

	// 3. 環境変数から基本設定をロードして、フラグの値を反映するのだ
	cfg := config.LoadConfig()
	cfg.Options = opts
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}

	slog.Info("画像生成モードを起動するのだ！",
		"model", opts.Model, "size", opts.Size, "save", opts.AutoSave())

	// 4. パイプライン実行
	result, err := pipeline.ExecuteImage(ctx, cfg)
	if err != nil {
		return reportFailure(err)
	}

	displayResult(result, opts.Verbose)
	return nil
}
