// Package profile loads sanitization rules from YAML. Keys left out of the
// file keep their defaults.
//
//	allowed_extensions: [.pdf, .png]
//	image_extensions: [.png]
//	thumbnail_keywords: [logo, assinatura]
//	min_image_size_bytes: 4096
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

// Load reads path, or returns the defaults when path is empty.
func Load(path string) (domain.SanitizationRules, error) {
	if strings.TrimSpace(path) == "" {
		return domain.DefaultSanitizationRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.SanitizationRules{}, fmt.Errorf("read sanitization profile: %w", err)
	}
	rules, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return domain.SanitizationRules{}, fmt.Errorf("sanitization profile %s: %w", path, err)
	}
	return rules, nil
}

func Parse(r io.Reader) (domain.SanitizationRules, error) {
	rules := domain.DefaultSanitizationRules()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return domain.SanitizationRules{}, fmt.Errorf("decode yaml: %w", err)
	}

	rules.AllowedExtensions = normalizeExtensions(rules.AllowedExtensions)
	rules.ImageExtensions = normalizeExtensions(rules.ImageExtensions)
	if err := validate(rules); err != nil {
		return domain.SanitizationRules{}, err
	}
	return rules, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func validate(rules domain.SanitizationRules) error {
	if len(rules.AllowedExtensions) == 0 {
		return errors.New("allowed_extensions must not be empty")
	}
	if rules.MinImageSizeBytes < 0 {
		return errors.New("min_image_size_bytes must be >= 0")
	}
	allowed := make(map[string]struct{}, len(rules.AllowedExtensions))
	for _, ext := range rules.AllowedExtensions {
		allowed[ext] = struct{}{}
	}
	for _, ext := range rules.ImageExtensions {
		if _, ok := allowed[ext]; !ok {
			return fmt.Errorf("image extension %s is not in allowed_extensions", ext)
		}
	}
	return nil
}
