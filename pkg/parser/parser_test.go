package parser

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-story-kit/pkg/domain"
	"github.com/shouni/go-story-kit/pkg/openai"
)

func TestParse(t *testing.T) {
	p := NewResponseParser()
	opts := domain.DefaultGenerationOptions()

	t.Run("URL付きレスポンスから結果を組み立てるのだ", func(t *testing.T) {
		resp := &openai.ImageResponse{
			Created: json.RawMessage("1700000000"),
			Data: []openai.ImageData{
				{URL: "https://img.example/cat.png", RevisedPrompt: "a detailed fluffy cat"},
			},
		}

		result, err := p.Parse(resp, "a cat", opts)
		if err != nil {
			t.Fatalf("Parse がエラーを返したのだ: %v", err)
		}
		if result.RemoteURL != "https://img.example/cat.png" {
			t.Errorf("RemoteURL = %q", result.RemoteURL)
		}
		if result.Metadata.RevisedPrompt != "a detailed fluffy cat" {
			t.Errorf("RevisedPrompt = %q", result.Metadata.RevisedPrompt)
		}
		if !result.Metadata.CreatedAt.Equal(time.Unix(1700000000, 0)) {
			t.Errorf("CreatedAt = %v", result.Metadata.CreatedAt)
		}
		if !strings.HasPrefix(result.GenerationID, "gen-") || len(result.GenerationID) != 12 {
			t.Errorf("GenerationID = %q", result.GenerationID)
		}
	})

	t.Run("b64_jsonはこの場でデコードされるのだ", func(t *testing.T) {
		payload := []byte{0x89, 'P', 'N', 'G'}
		resp := &openai.ImageResponse{
			Data: []openai.ImageData{
				{B64JSON: base64.StdEncoding.EncodeToString(payload)},
			},
		}

		result, err := p.Parse(resp, "a dog", opts)
		if err != nil {
			t.Fatalf("Parse がエラーを返したのだ: %v", err)
		}
		if !result.Downloaded() {
			t.Error("ペイロードが入っているはずなのだ")
		}
		if string(result.Payload) != string(payload) {
			t.Errorf("Payload = %v", result.Payload)
		}
	})

	t.Run("nilレスポンスはパースエラーなのだ", func(t *testing.T) {
		_, err := p.Parse(nil, "x", opts)
		assertParsingError(t, err)
	})

	t.Run("dataが空ならパースエラーなのだ", func(t *testing.T) {
		_, err := p.Parse(&openai.ImageResponse{}, "x", opts)
		assertParsingError(t, err)
	})

	t.Run("urlもb64_jsonもなければパースエラーなのだ", func(t *testing.T) {
		resp := &openai.ImageResponse{
			Data: []openai.ImageData{{RevisedPrompt: "only revision"}},
		}
		_, err := p.Parse(resp, "x", opts)
		assertParsingError(t, err)
	})

	t.Run("壊れたb64_jsonはパースエラーなのだ", func(t *testing.T) {
		resp := &openai.ImageResponse{
			Data: []openai.ImageData{{B64JSON: "%%% not base64 %%%"}},
		}
		_, err := p.Parse(resp, "x", opts)
		assertParsingError(t, err)
	})

	t.Run("不正なcreatedでも失敗しないのだ", func(t *testing.T) {
		cases := []string{`"not-a-number"`, `{"weird": true}`, `null`, `""`}
		for _, raw := range cases {
			resp := &openai.ImageResponse{
				Created: json.RawMessage(raw),
				Data:    []openai.ImageData{{URL: "https://img.example/x.png"}},
			}
			result, err := p.Parse(resp, "x", opts)
			if err != nil {
				t.Fatalf("created=%s で Parse がエラーを返したのだ: %v", raw, err)
			}
			if result.Metadata.CreatedAt.IsZero() {
				t.Errorf("created=%s のとき CreatedAt がゼロ値なのだ", raw)
			}
		}
	})

	t.Run("文字列の数値createdは解釈されるのだ", func(t *testing.T) {
		resp := &openai.ImageResponse{
			Created: json.RawMessage(`"1700000000"`),
			Data:    []openai.ImageData{{URL: "https://img.example/x.png"}},
		}
		result, err := p.Parse(resp, "x", opts)
		if err != nil {
			t.Fatalf("Parse がエラーを返したのだ: %v", err)
		}
		if !result.Metadata.CreatedAt.Equal(time.Unix(1700000000, 0)) {
			t.Errorf("CreatedAt = %v", result.Metadata.CreatedAt)
		}
	})
}

func assertParsingError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("エラーが返るはずなのだ")
	}
	domErr, ok := domain.AsError(err)
	if !ok {
		t.Fatalf("domain.Error ではないのだ: %v", err)
	}
	if domErr.Code != domain.ErrParsing {
		t.Errorf("code = %s, want %s", domErr.Code, domain.ErrParsing)
	}
}
