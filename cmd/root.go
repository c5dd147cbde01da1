package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-story-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は addAppFlags で各フラグに紐付けられる実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.Model, "model", config.DefaultModel, "使用する画像生成モデル名なのだ（dall-e-2 / dall-e-3）。")
	rootCmd.PersistentFlags().StringVar(&opts.Size, "size", config.DefaultSize, "生成する画像のサイズなのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Quality, "quality", config.DefaultQuality, "画質なのだ（standard / hd、dall-e-3のみ）。")
	rootCmd.PersistentFlags().StringVar(&opts.Style, "style", config.DefaultStyle, "画風なのだ（vivid / natural、dall-e-3のみ）。")
	rootCmd.PersistentFlags().StringVar(&opts.ResponseFormat, "response-format", "url", "レスポンス形式なのだ（url / b64_json）。")
	rootCmd.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "OpenAI APIキーなのだ。環境変数 OPENAI_API_KEY より優先されるのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "APIリクエストのタイムアウトなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().BoolVar(&opts.NoSave, "no-save", false, "生成した画像をローカルに保存しないのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.SaveDir, "save-path", "o", config.DefaultSaveDir, "画像の保存先ディレクトリなのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "結果の詳細（メタデータなど）を表示するのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// OpenAI APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if opts.APIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 OPENAI_API_KEY か --api-key が設定されていません。OpenAI APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"story-kit-go",
		addAppFlags,
		preRunAppE,
		imageCmd,
		storyCmd,
	)
}
