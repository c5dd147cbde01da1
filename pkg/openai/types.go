// Package openai は OpenAI 互換 API（画像生成・チャット補完・音声合成）との
// 通信を担当するクライアントです。提供元固有の失敗は、この境界で
// domain.Error の小さな語彙に変換されます。
package openai

import "encoding/json"

// imageRequest は /v1/images/generations へのリクエストボディです。
type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// ImageData は生成された画像1件分のエントリです。
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImageResponse は画像生成APIの生レスポンスです。
// Created は提供元が不正な値を返しても復号に失敗しないよう
// 生のままパーサーへ渡します。
type ImageResponse struct {
	Created json.RawMessage `json:"created,omitempty"`
	Data    []ImageData     `json:"data"`
	Error   *apiError       `json:"error,omitempty"`
}

// apiError は提供元のエラーエンベロープです。
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// chatMessage はチャット補完の1メッセージです。
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponseFormat は構造化出力の指定です。
type chatResponseFormat struct {
	Type string `json:"type"`
}

// chatRequest は /v1/chat/completions へのリクエストボディです。
type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
	Temperature    float64             `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
}

// chatChoice はチャット補完の応答候補です。
type chatChoice struct {
	Message chatMessage `json:"message"`
}

// chatResponse はチャット補完APIのレスポンスです。
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

// speechRequest は /v1/audio/speech へのリクエストボディです。
type speechRequest struct {
	Model string  `json:"model"`
	Voice string  `json:"voice"`
	Input string  `json:"input"`
	Speed float64 `json:"speed,omitempty"`
}

// RawScene はチャット補完による物語分解が返す1シーン分の素材です。
// シーン数の過不足はこの段階では調整されません（調整は呼び出し側の責務です）。
type RawScene struct {
	Narrative   string `json:"narrative"`
	ImagePrompt string `json:"image_prompt"`
}

// sceneEnvelope は "scenes" キーを持つオブジェクト形式の応答を受けるための器です。
type sceneEnvelope struct {
	Scenes []RawScene `json:"scenes"`
}
