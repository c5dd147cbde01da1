package domain

import (
	"strings"
	"testing"
)

func TestValidatePrompt(t *testing.T) {
	t.Run("通常のプロンプトは有効なのだ", func(t *testing.T) {
		if !ValidatePrompt("A cat wearing a space helmet") {
			t.Error("有効なプロンプトが拒否されたのだ")
		}
	})

	t.Run("空文字列と空白のみは無効なのだ", func(t *testing.T) {
		for _, p := range []string{"", "   ", "\t\n  "} {
			if ValidatePrompt(p) {
				t.Errorf("空のプロンプト %q が通ってしまったのだ", p)
			}
		}
	})

	t.Run("4000文字ちょうどは有効で、超えたら無効なのだ", func(t *testing.T) {
		exact := strings.Repeat("a", MaxPromptLength)
		if !ValidatePrompt(exact) {
			t.Error("上限ちょうどのプロンプトが拒否されたのだ")
		}
		if ValidatePrompt(exact + "a") {
			t.Error("上限超過のプロンプトが通ってしまったのだ")
		}
	})

	t.Run("禁止語は大文字小文字を問わず弾くのだ", func(t *testing.T) {
		for _, p := range []string{
			"a scene of violence in the street",
			"EXPLICIT content please",
			"Gore and more",
		} {
			if ValidatePrompt(p) {
				t.Errorf("禁止語入りのプロンプト %q が通ってしまったのだ", p)
			}
		}
	})
}
