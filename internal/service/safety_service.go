package service

import (
	"errors"
	"strings"

	"github.com/lingxi-lab/lingxi_go_server/config"
)

var ErrContentRejected = errors.New("内容包含违禁词，请修改后重试")

// 内置违禁词表：夸大疗效、绝对化收益、封建迷信类宣称。
// 可通过配置 moderation.banned_words 追加。
var defaultBannedWords = []string{
	"包治百病",
	"根治",
	"药到病除",
	"替代就医",
	"停药",
	"百分百有效",
	"稳赚",
	"必中",
	"改命",
	"消灾解难",
	"保过",
}

// SafetyResult 内容审核结果
type SafetyResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// SafetyService 发布前的关键词审核。拒绝不消耗配额。
type SafetyService struct {
	words []string
}

func NewSafetyService(cfg *config.Config) *SafetyService {
	words := make([]string, 0, len(defaultBannedWords)+len(cfg.Moderation.BannedWords))
	words = append(words, defaultBannedWords...)
	words = append(words, cfg.Moderation.BannedWords...)
	return &SafetyService{words: words}
}

// Validate 检查文本是否命中违禁词
func (s *SafetyService) Validate(text string) *SafetyResult {
	for _, word := range s.words {
		if word == "" {
			continue
		}
		if strings.Contains(text, word) {
			return &SafetyResult{
				Valid:  false,
				Reason: "内容包含违禁词：" + word,
			}
		}
	}
	return &SafetyResult{Valid: true}
}
