package cleaning

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter는 기본 설정을 보여주고 사용자가 수정한 설정을 돌려받습니다
type Prompter interface {
	PromptForFields(defaults FilterConfig) (FilterConfig, error)
}

// CollectOverrides는 기본 설정을 조회해 Prompter에 넘기고, 그 결과를 그대로 반환합니다
func CollectOverrides(resolver *Resolver, prompter Prompter) (FilterConfig, error) {
	defaults, err := resolver.Resolve(nil)
	if err != nil {
		return FilterConfig{}, err
	}
	return prompter.PromptForFields(defaults)
}

// ConsolePrompter는 콘솔에서 항목별 값을 입력받습니다.
// 빈 줄은 기본값을 유지하고, 잘못된 입력은 다시 묻습니다.
type ConsolePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsolePrompter는 새로운 ConsolePrompter를 생성합니다
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// PromptForFields는 Prompter 인터페이스를 구현합니다.
// 입력이 끝나면 남은 항목은 기본값을 유지합니다.
func (p *ConsolePrompter) PromptForFields(defaults FilterConfig) (FilterConfig, error) {
	fmt.Fprintln(p.out, "Data cleaning configuration: (press enter for defaults)")

	cfg := defaults
	for _, f := range filterFields {
		for {
			fmt.Fprintf(p.out, "%s (기본값: %s): ", f.key, f.format(defaults))

			if !p.in.Scan() {
				if err := p.in.Err(); err != nil {
					return FilterConfig{}, fmt.Errorf("입력 읽기 실패: %w", err)
				}
				fmt.Fprintln(p.out)
				return cfg, nil
			}

			input := strings.TrimSpace(p.in.Text())
			if input == "" {
				break
			}

			v, err := f.parse(input)
			if err != nil {
				fmt.Fprintf(p.out, "잘못된 값입니다: %q\n", input)
				continue
			}
			f.set(&cfg, v)
			break
		}
	}

	return cfg, nil
}
