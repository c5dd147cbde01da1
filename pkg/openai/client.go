package openai

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shouni/go-story-kit/pkg/domain"

	"github.com/shouni/go-http-kit/httpkit"
)

// DecomposePrompt は物語分解に使うシステム指示のテンプレートです。
// %[1]d にシーン数が入ります。
//
//go:embed decompose.md
var DecomposePrompt string

// Config はクライアントの接続設定です。
type Config struct {
	APIKey    string
	BaseURL   string // 省略時は https://api.openai.com
	ChatModel string // 省略時は gpt-4o-mini
	TTSModel  string // 省略時は tts-1
}

// Client は OpenAI 互換 API のクライアントです。
// 通信のみを担当し、レスポンスの解釈（パース）やビジネス判断は持ちません。
type Client struct {
	httpClient httpkit.HTTPClient // httpClient は外部APIとの通信に使う共通クライアント
	apiKey     string
	baseURL    string
	chatModel  string
	ttsModel   string
}

// New はクライアントを初期化します。APIキーが空の場合はエラーです。
func New(httpClient httpkit.HTTPClient, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIキーが指定されていません。環境変数 OPENAI_API_KEY を設定してください")
	}

	c := &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		chatModel:  cfg.ChatModel,
		ttsModel:   cfg.TTSModel,
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.openai.com"
	}
	if c.chatModel == "" {
		c.chatModel = "gpt-4o-mini"
	}
	if c.ttsModel == "" {
		c.ttsModel = "tts-1"
	}
	return c, nil
}

// ValidateAPIKey はキーの書式だけを確認します。
// 書式が正しくても失効済みの可能性はあるため、疎通の保証ではありません。
func (c *Client) ValidateAPIKey() bool {
	return strings.HasPrefix(c.apiKey, "sk-") && len(c.apiKey) > 20
}

// GenerateImage は画像生成APIを呼び出し、生レスポンスを返します。
// quality と style は dall-e-3 のときだけペイロードに含めます（dall-e-2 は
// 未対応のため）。失敗は domain.Error に変換されます。
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts domain.GenerationOptions) (*ImageResponse, error) {
	req := imageRequest{
		Model:          opts.Model,
		Prompt:         prompt,
		N:              opts.Count,
		Size:           opts.Size,
		ResponseFormat: opts.ResponseFormat,
	}
	if req.N == 0 {
		req.N = 1
	}
	if opts.Model == "dall-e-3" {
		req.Quality = opts.Quality
		req.Style = opts.Style
	}

	body, err := c.postJSON(ctx, "/v1/images/generations", req)
	if err != nil {
		return nil, err
	}

	var resp ImageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewErrorWithDetails(domain.ErrParsing,
			"画像生成レスポンスの復号に失敗しました", map[string]any{"error": err.Error()})
	}
	return &resp, nil
}

// DecomposeStory はチャット補完で物語をシーン列に分解します。
// 応答は素のJSON配列でも {"scenes": [...]} 形式でも受け付けます。
// JSONとして壊れていれば STORY_PARSING_ERROR、その他の失敗は
// STORY_DECOMPOSITION_ERROR です（domain.Error はそのまま通します）。
func (c *Client) DecomposeStory(ctx context.Context, opts domain.StoryOptions) ([]RawScene, error) {
	system := fmt.Sprintf(DecomposePrompt, opts.SceneCount)
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: "Story to break down: " + opts.StoryPrompt},
		},
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
		Temperature:    0.7,
		MaxTokens:      2000,
	}

	body, err := c.postJSON(ctx, "/v1/chat/completions", req)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.NewError(domain.ErrStoryDecomposition,
			fmt.Sprintf("物語の分解に失敗しました: %v", err))
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewError(domain.ErrStoryParsing,
			fmt.Sprintf("チャット補完レスポンスの復号に失敗しました: %v", err))
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewError(domain.ErrStoryDecomposition, "チャット補完の応答候補が空でした")
	}

	return parseScenes(resp.Choices[0].Message.Content)
}

// parseScenes はモデルが返したテキストからシーン列を取り出します。
func parseScenes(raw string) ([]RawScene, error) {
	// モデルが付けがちなMarkdownのコードブロックを取り除きます
	rawJSON := strings.TrimSpace(raw)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")
	rawJSON = strings.TrimSpace(rawJSON)

	if strings.HasPrefix(rawJSON, "[") {
		var scenes []RawScene
		if err := json.Unmarshal([]byte(rawJSON), &scenes); err != nil {
			return nil, domain.NewError(domain.ErrStoryParsing,
				fmt.Sprintf("シーン配列のJSONパースに失敗しました: %v", err))
		}
		return scenes, nil
	}

	var envelope sceneEnvelope
	if err := json.Unmarshal([]byte(rawJSON), &envelope); err != nil {
		return nil, domain.NewError(domain.ErrStoryParsing,
			fmt.Sprintf("シーンオブジェクトのJSONパースに失敗しました: %v", err))
	}
	if envelope.Scenes == nil {
		return nil, domain.NewError(domain.ErrStoryParsing, "応答に scenes キーが見つかりませんでした")
	}
	return envelope.Scenes, nil
}

// SynthesizeNarration はシーンのあらすじから音声合成APIでナレーションを生成します。
// 戻り値はMP3のバイト列です。
func (c *Client) SynthesizeNarration(ctx context.Context, scene *domain.StoryScene, voice string, speed float64) ([]byte, error) {
	// 冒頭シーンとそれ以降で導入句を変えて、聞き流しやすい繋がりを作ります
	var text string
	if scene.SceneNumber == 1 {
		text = fmt.Sprintf("Scene %d. %s", scene.SceneNumber, scene.Narrative)
	} else {
		text = fmt.Sprintf("In scene %d, %s", scene.SceneNumber, scene.Narrative)
	}

	req := speechRequest{
		Model: c.ttsModel,
		Voice: voice,
		Input: text,
		Speed: speed,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("音声合成リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("音声合成リクエストの生成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewError(domain.ErrTTS, fmt.Sprintf("音声合成APIの呼び出しに失敗しました: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.ErrTTS, fmt.Sprintf("音声データの読み取りに失敗しました: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.NewError(domain.ErrAuthentication, "音声合成のAPIキーが無効です")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewError(domain.ErrRateLimit, "音声合成APIのレート制限を超えました")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, domain.NewError(domain.ErrTTS,
			fmt.Sprintf("音声合成APIがエラーを返しました: status=%d %s", resp.StatusCode, apiErrorMessage(body)))
	}
	return body, nil
}

// Download は生成済み画像のURLからバイナリを取得します。
// タイムアウトは共通HTTPクライアントの設定に従います。
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewErrorWithDetails(domain.ErrDownload,
			fmt.Sprintf("ダウンロードリクエストの生成に失敗しました: %v", err), map[string]any{"url": url})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewErrorWithDetails(domain.ErrDownload,
			fmt.Sprintf("画像のダウンロードに失敗しました: %v", err), map[string]any{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewErrorWithDetails(domain.ErrDownload,
			fmt.Sprintf("画像のダウンロードに失敗しました: status=%d", resp.StatusCode), map[string]any{"url": url})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewErrorWithDetails(domain.ErrDownload,
			fmt.Sprintf("画像データの読み取りに失敗しました: %v", err), map[string]any{"url": url})
	}
	return data, nil
}

// postJSON はJSONボディをPOSTし、成功時のレスポンスボディを返します。
// 非2xxは translateStatus によって domain.Error に変換されます。
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの生成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewError(domain.ErrAPI, fmt.Sprintf("APIの呼び出しに失敗しました: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewError(domain.ErrAPI, fmt.Sprintf("レスポンスの読み取りに失敗しました: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, translateStatus(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// translateStatus は提供元のHTTPエラーをドメインエラーの語彙に変換します。
// コンテンツポリシー違反はエラーメッセージ中のマーカーで検出します。
func translateStatus(status int, body []byte) *domain.Error {
	message := apiErrorMessage(body)

	switch status {
	case http.StatusUnauthorized:
		return domain.NewErrorWithDetails(domain.ErrAuthentication,
			"APIキーが無効か、認証に失敗しました", map[string]any{"original_error": message})
	case http.StatusTooManyRequests:
		return domain.NewErrorWithDetails(domain.ErrRateLimit,
			"APIのレート制限を超えました", map[string]any{"original_error": message})
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "content policy") || strings.Contains(lower, "content_policy") ||
		strings.Contains(lower, "safety") {
		return domain.NewErrorWithDetails(domain.ErrContentPolicy,
			"プロンプトが提供元のコンテンツポリシーに違反しています", map[string]any{"original_error": message})
	}

	return domain.NewErrorWithDetails(domain.ErrAPI,
		fmt.Sprintf("APIリクエストが失敗しました: status=%d %s", status, message),
		map[string]any{"original_error": message})
}

// apiErrorMessage はエラーエンベロープから人間向けメッセージを取り出します。
// 復号できない場合はボディの先頭をそのまま返します。
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error.Message
	}

	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit]
	}
	return s
}
