// Package parser は画像生成APIの生レスポンスをドメインの
// 生成結果に変換します。不正なレスポンスはこの層で検出され、
// PARSING_ERROR として報告されます。
package parser

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-story-kit/pkg/domain"
	"github.com/shouni/go-story-kit/pkg/openai"

	"github.com/google/uuid"
)

// ResponseParser は ImageResponse を GenerationResult に変換する構造体です。
type ResponseParser struct {
}

// NewResponseParser は新しい ResponseParser インスタンスを生成します。
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse は生レスポンスを検証し、生成結果を組み立てます。
// data が空、または url と b64_json の両方が欠けている場合は
// PARSING_ERROR を返します。b64_json はこの場でデコードまで行い、
// 壊れたペイロードを下流に流しません。
func (p *ResponseParser) Parse(resp *openai.ImageResponse, prompt string, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	if resp == nil {
		return nil, domain.NewError(domain.ErrParsing, "レスポンスが空（nil）でした")
	}
	if len(resp.Data) == 0 {
		return nil, domain.NewErrorWithDetails(domain.ErrParsing,
			"レスポンスに画像データが含まれていません", map[string]any{"data_length": 0})
	}

	entry := resp.Data[0]
	if entry.URL == "" && entry.B64JSON == "" {
		return nil, domain.NewErrorWithDetails(domain.ErrParsing,
			"画像エントリに url と b64_json のどちらも含まれていません",
			map[string]any{"missing_keys": []string{"url", "b64_json"}})
	}

	result := &domain.GenerationResult{
		Prompt:       prompt,
		RemoteURL:    entry.URL,
		GenerationID: newGenerationID(),
		Timestamp:    time.Now(),
		Metadata: &domain.GenerationMetadata{
			Prompt:        prompt,
			RevisedPrompt: entry.RevisedPrompt,
			Size:          opts.Size,
			Model:         opts.Model,
			Quality:       opts.Quality,
			Style:         opts.Style,
			CreatedAt:     parseCreated(resp.Created),
		},
	}

	if entry.B64JSON != "" {
		payload, err := base64.StdEncoding.DecodeString(entry.B64JSON)
		if err != nil {
			return nil, domain.NewErrorWithDetails(domain.ErrParsing,
				fmt.Sprintf("b64_json のデコードに失敗しました: %v", err),
				map[string]any{"b64_length": len(entry.B64JSON)})
		}
		result.Payload = payload
	}

	return result, nil
}

// newGenerationID は結果の追跡に使う短い識別子を生成します。
func newGenerationID() string {
	id := uuid.New().String()
	return "gen-" + strings.ReplaceAll(id, "-", "")[:8]
}

// parseCreated は created タイムスタンプを寛容に解釈します。
// 数値・数値の文字列のどちらでも受け付け、解釈できない値は
// 失敗にせず現在時刻で代替します。
func parseCreated(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now()
	}

	var epoch int64
	if err := json.Unmarshal(raw, &epoch); err == nil {
		return time.Unix(epoch, 0)
	}

	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(quoted), 10, 64); err == nil {
			return time.Unix(n, 0)
		}
	}

	return time.Now()
}
