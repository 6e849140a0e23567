package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ProductionConfig는 defaults.yaml 위에 private 설정을 덮어쓴 계층형 설정 저장소입니다.
// 로드 이후에는 읽기 전용입니다.
type ProductionConfig struct {
	// 뒤쪽 레이어가 우선합니다
	layers []map[string]interface{}
}

// NewProductionConfig는 주어진 YAML 문서들을 순서대로 쌓아 설정 저장소를 만듭니다.
// 뒤에 오는 문서의 값이 앞의 값을 덮어씁니다.
func NewProductionConfig(docs ...[]byte) (*ProductionConfig, error) {
	pc := &ProductionConfig{}
	for i, doc := range docs {
		layer := map[string]interface{}{}
		if err := yaml.Unmarshal(doc, &layer); err != nil {
			return nil, fmt.Errorf("설정 레이어 %d 파싱 실패: %w", i, err)
		}
		pc.layers = append(pc.layers, layer)
	}
	return pc, nil
}

// LoadProductionConfig는 내장 defaults.yaml과 privatePath의 설정 파일을 합쳐 로드합니다.
// privatePath가 비어 있거나 파일이 없으면 기본값만 사용합니다.
func LoadProductionConfig(privatePath string) (*ProductionConfig, error) {
	docs := [][]byte{defaultsYAML}

	if privatePath != "" {
		data, err := os.ReadFile(privatePath)
		switch {
		case err == nil:
			docs = append(docs, data)
		case errors.Is(err, fs.ErrNotExist):
			// private 설정은 선택 사항
		default:
			return nil, fmt.Errorf("private 설정 파일 읽기 실패: %w", err)
		}
	}

	return NewProductionConfig(docs...)
}

// DefaultsYAML은 내장된 defaults.yaml 내용을 반환합니다
func DefaultsYAML() []byte {
	out := make([]byte, len(defaultsYAML))
	copy(out, defaultsYAML)
	return out
}

// GetElement는 key의 값을 가장 우선순위가 높은 레이어에서 찾습니다.
// null 값은 해당 레이어에 없는 것으로 취급하고, 어느 레이어에도 없으면 false를 반환합니다.
func (pc *ProductionConfig) GetElement(key string) (interface{}, bool) {
	for i := len(pc.layers) - 1; i >= 0; i-- {
		if v, ok := pc.layers[i][key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
