package builder

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-story-kit/internal/runner"
	"github.com/shouni/go-story-kit/pkg/openai"
	"github.com/shouni/go-story-kit/pkg/parser"
)

// InitializeClient は OpenAI クライアントを初期化します。
func InitializeClient(appCtx *AppContext) (*openai.Client, error) {
	client, err := openai.New(appCtx.httpClient, openai.Config{
		APIKey:    appCtx.Config.APIKey,
		BaseURL:   appCtx.Config.BaseURL,
		ChatModel: appCtx.Config.ChatModel,
		TTSModel:  appCtx.Config.TTSModel,
	})
	if err != nil {
		return nil, fmt.Errorf("APIクライアントの初期化に失敗したのだ: %w", err)
	}

	// 書式の怪しいキーは失敗が確定する前に気付けるよう、先に警告するのだ
	if !client.ValidateAPIKey() {
		slog.Warn("APIキーの書式が正しくないようなのだ（sk- で始まる長いキーのはずなのだ）")
	}
	return client, nil
}

// BuildImageRunner は単発の画像生成を担当する Runner を構築します。
func BuildImageRunner(appCtx *AppContext) (*runner.StillImageRunner, error) {
	client, err := InitializeClient(appCtx)
	if err != nil {
		return nil, err
	}

	return runner.NewStillImageRunner(client, parser.NewResponseParser(), appCtx.Layout), nil
}

// BuildStoryRunner は物語全体の生成を担当する Runner を構築します。
func BuildStoryRunner(appCtx *AppContext) (*runner.StoryRunner, error) {
	client, err := InitializeClient(appCtx)
	if err != nil {
		return nil, err
	}

	still := runner.NewStillImageRunner(client, parser.NewResponseParser(), appCtx.Layout)
	return runner.NewStoryRunner(still, client, appCtx.Layout), nil
}
