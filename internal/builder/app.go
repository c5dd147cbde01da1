package builder

import (
	"github.com/shouni/go-story-kit/internal/config"
	"github.com/shouni/go-story-kit/pkg/publisher"

	"github.com/shouni/go-http-kit/httpkit"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、接続先など）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（モデル名、サイズ、保存先など）。
	Layout     *publisher.Layout       // Layoutは、生成物の保存先ディレクトリの割り当てを担います。
	httpClient httpkit.HTTPClient // httpClient は外部APIとの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	layout *publisher.Layout,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Layout:     layout,
		httpClient: httpClient,
	}
}
