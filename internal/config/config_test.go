package config

import (
	"slices"
	"testing"
)

func TestValidSizes(t *testing.T) {
	t.Run("dall-e-2は小さいサイズに対応しているのだ", func(t *testing.T) {
		sizes := ValidSizes("dall-e-2")
		if !slices.Contains(sizes, "256x256") || slices.Contains(sizes, "1792x1024") {
			t.Errorf("sizes = %v", sizes)
		}
	})

	t.Run("dall-e-3は横長と縦長に対応しているのだ", func(t *testing.T) {
		sizes := ValidSizes("dall-e-3")
		if !slices.Contains(sizes, "1792x1024") || !slices.Contains(sizes, "1024x1792") {
			t.Errorf("sizes = %v", sizes)
		}
		if slices.Contains(sizes, "256x256") {
			t.Errorf("sizes = %v", sizes)
		}
	})
}

func TestValidateOptions(t *testing.T) {
	valid := GenerateOptions{Model: "dall-e-3", Size: "1024x1024", Quality: "standard", Style: "vivid", SceneCount: 5}

	t.Run("正しい組み合わせは通るのだ", func(t *testing.T) {
		if err := ValidateOptions(valid); err != nil {
			t.Errorf("ValidateOptions がエラーを返したのだ: %v", err)
		}
	})

	t.Run("未対応のモデルは弾くのだ", func(t *testing.T) {
		opts := valid
		opts.Model = "dall-e-9"
		if err := ValidateOptions(opts); err == nil {
			t.Error("エラーが返るはずなのだ")
		}
	})

	t.Run("モデルとサイズの不整合は弾くのだ", func(t *testing.T) {
		opts := valid
		opts.Model = "dall-e-2"
		opts.Size = "1792x1024"
		if err := ValidateOptions(opts); err == nil {
			t.Error("エラーが返るはずなのだ")
		}
	})

	t.Run("dall-e-2でhd品質は弾くのだ", func(t *testing.T) {
		opts := GenerateOptions{Model: "dall-e-2", Size: "512x512", Quality: "hd"}
		if err := ValidateOptions(opts); err == nil {
			t.Error("エラーが返るはずなのだ")
		}
	})

	t.Run("dall-e-2でnaturalスタイルは弾くのだ", func(t *testing.T) {
		opts := GenerateOptions{Model: "dall-e-2", Size: "512x512", Style: "natural"}
		if err := ValidateOptions(opts); err == nil {
			t.Error("エラーが返るはずなのだ")
		}
	})

	t.Run("シーン数の上限を超えると弾くのだ", func(t *testing.T) {
		opts := valid
		opts.SceneCount = MaxSceneCount + 1
		if err := ValidateOptions(opts); err == nil {
			t.Error("エラーが返るはずなのだ")
		}
	})
}
