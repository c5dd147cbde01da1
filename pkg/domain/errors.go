package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode は生成処理の失敗種別を表す機械可読なコードです。
// 呼び出し側はこのコードだけでユーザー向けの案内文を決定できます。
type ErrorCode string

const (
	ErrAuthentication     ErrorCode = "AUTHENTICATION_ERROR"
	ErrRateLimit          ErrorCode = "RATE_LIMIT_ERROR"
	ErrContentPolicy      ErrorCode = "CONTENT_POLICY_ERROR"
	ErrAPI                ErrorCode = "API_ERROR"
	ErrParsing            ErrorCode = "PARSING_ERROR"
	ErrDownload           ErrorCode = "DOWNLOAD_ERROR"
	ErrSave               ErrorCode = "SAVE_ERROR"
	ErrStoryParsing       ErrorCode = "STORY_PARSING_ERROR"
	ErrStoryDecomposition ErrorCode = "STORY_DECOMPOSITION_ERROR"
	ErrStoryGeneration    ErrorCode = "STORY_GENERATION_ERROR"
	ErrTTS                ErrorCode = "TTS_API_ERROR"
	ErrUnknown            ErrorCode = "UNKNOWN_ERROR"
)

// Error は生成パイプライン全体で共有するドメインエラーです。
// コードと人間向けメッセージに加えて、診断用の詳細情報を保持できます。
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// NewError は詳細情報なしのドメインエラーを生成します。
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorWithDetails は診断用の詳細情報付きでドメインエラーを生成します。
func NewErrorWithDetails(code ErrorCode, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// Error は "[CODE] メッセージ" の形式で整形します。
// ログを grep しやすくするための書式です。
func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
	}
	return fmt.Sprintf("[%s] %s | %s", e.Code, e.Message, strings.Join(parts, " "))
}

// AsError は err のチェーンからドメインエラーを取り出します。
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// remedies はエラーコードごとのユーザー向け対処案内です。
var remedies = map[ErrorCode]string{
	ErrContentPolicy:  "プロンプトの表現を見直して、問題になりそうな内容を避けてほしいのだ。",
	ErrRateLimit:      "少し待ってから再実行してほしいのだ。頻発する場合はプランの見直しも検討なのだ。",
	ErrAuthentication: "環境変数 OPENAI_API_KEY に正しいキーが入っているか確認してほしいのだ。",
}

// Remedy はエラーコードに対応する対処案内を返します。案内がないコードでは空文字列です。
func Remedy(code ErrorCode) string {
	return remedies[code]
}
