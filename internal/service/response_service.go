package service

import (
	"sync"
)

// 回复风格
const (
	StyleEmpathetic    = "empathetic"
	StyleMotivational  = "motivational"
	StyleStressRelief  = "stress_relief"
	StyleFriendly      = "friendly"
	StyleEncouragement = "encouragement"
)

// ResponseStyles 是受支持的回复风格集合。
var ResponseStyles = []string{StyleEmpathetic, StyleMotivational, StyleStressRelief, StyleFriendly, StyleEncouragement}

// defaultBucket 是每种风格在缺少对应情绪模板时使用的桶。
const defaultBucket = "default"

// templateBank 在进程启动时构建，之后只读。
var templateBank = map[string]map[string][]string{
	StyleEmpathetic: {
		"joy": {
			"I'm so happy to hear that you're feeling joyful! 😊",
			"That sounds absolutely wonderful! Your happiness is contagious!",
			"It's beautiful to hear about your joyful experience!",
		},
		"sadness": {
			"I hear the sadness in your words, and I want you to know that it's okay to feel this way.",
			"That sounds really difficult. I'm here with you in this moment.",
			"Your feelings are completely valid. Thank you for sharing this with me.",
		},
		"anger": {
			"I can feel the frustration in your message. That sounds really challenging.",
			"It's completely understandable to feel angry in that situation.",
			"That would make anyone feel upset. I'm here to listen.",
		},
		"fear": {
			"It sounds like you're feeling really worried right now. That must be scary.",
			"I can hear the fear in your words. Let's breathe through this together.",
			"That sounds anxiety-provoking. You're not alone in this.",
		},
		"surprise": {
			"Wow, that's quite surprising! How are you feeling about it?",
			"That sounds unexpected! Tell me more about what happened.",
			"What a surprising turn of events! How are you processing this?",
		},
		"love": {
			"It's beautiful to hear about the love you're experiencing! 💖",
			"That sounds so heartwarming! Love is such a powerful emotion.",
			"How wonderful to hear about these loving feelings!",
		},
		"neutral": {
			"Thanks for sharing that with me. How are you feeling about it?",
			"I appreciate you telling me about this. Want to explore it more?",
			"Thanks for the update. How's everything else going?",
		},
	},
	StyleMotivational: {
		"joy": {
			"Your positive energy is inspiring! Keep shining your light! ✨",
			"This joyful energy will carry you far! Embrace it fully!",
			"Your happiness is fuel for amazing things ahead!",
		},
		"sadness": {
			"Even in this difficult moment, I see your strength. This feeling will pass.",
			"You have overcome challenges before, and you will overcome this too.",
			"Your resilience is greater than you know. Keep going, one step at a time.",
		},
		"anger": {
			"Your passion shows you care deeply. Channel this energy positively!",
			"This fire inside you can fuel positive change. You've got this!",
			"Your strong feelings mean you have strong values. That's powerful!",
		},
		"fear": {
			"Courage isn't the absence of fear, but moving forward despite it.",
			"You're stronger than your fears. Take one small brave step today.",
			"Every courageous act begins with feeling afraid but doing it anyway.",
		},
		defaultBucket: {
			"You're capable of amazing things! Believe in yourself!",
			"Every step forward, no matter how small, is progress.",
			"Your journey matters, and you're doing better than you think!",
		},
	},
	StyleStressRelief: {
		defaultBucket: {
			"Let's take a deep breath together... Inhale slowly... and exhale... 🍃",
			"When stress comes, remember to be gentle with yourself. This moment will pass.",
			"Would you like to try a quick grounding exercise? Name 5 things you can see around you...",
			"Stress is temporary. Let's focus on your breathing for a moment.",
		},
	},
	StyleFriendly: {
		defaultBucket: {
			"Hey there! Thanks for chatting with me today! 😊",
			"I'm always here to listen, anytime you want to talk.",
			"How has your day been going? I'd love to hear more!",
			"Friendship and support can make tough times easier. I'm here for you!",
		},
	},
	StyleEncouragement: {
		defaultBucket: {
			"You're doing better than you think you are! 🌟",
			"I see how hard you're trying, and I'm genuinely proud of you.",
			"Your efforts matter more than you know. Keep going!",
			"You have so much strength within you. Trust yourself!",
		},
	},
}

// fallbackResponses 在风格和情绪都没有可用模板时使用。
var fallbackResponses = []string{
	"Thank you for sharing that with me. I'm here to support you.",
	"I appreciate you opening up to me. How can I support you right now?",
	"Thanks for telling me about this. I'm listening carefully.",
}

// IsKnownStyle 判断风格是否受支持。
func IsKnownStyle(style string) bool {
	_, ok := templateBank[style]
	return ok
}

// Candidates 按 (风格, 情绪) → (风格, default) → 全局兜底 的顺序解析候选回复，结果非空。
func Candidates(style, emotion string) []string {
	if bucket, ok := templateBank[style]; ok {
		if c := bucket[emotion]; len(c) > 0 {
			return c
		}
		if c := bucket[defaultBucket]; len(c) > 0 {
			return c
		}
	}
	return fallbackResponses
}

// RandSource 是随机数来源，*rand.Rand 满足该接口。
type RandSource interface {
	Intn(n int) int
}

// ResponseService 定义了模板回复选择的接口。
type ResponseService interface {
	NormalizeStyle(style string) string
	Select(style, emotion string) string
}

type responseService struct {
	defaultStyle string
	mu           sync.Mutex
	rnd          RandSource
}

// NewResponseService 创建一个新的 ResponseService。defaultStyle 不受支持时使用 empathetic。
func NewResponseService(defaultStyle string, rnd RandSource) ResponseService {
	if !IsKnownStyle(defaultStyle) {
		defaultStyle = StyleEmpathetic
	}
	return &responseService{defaultStyle: defaultStyle, rnd: rnd}
}

// NormalizeStyle 将不受支持的风格替换为默认风格。
func (s *responseService) NormalizeStyle(style string) string {
	if IsKnownStyle(style) {
		return style
	}
	return s.defaultStyle
}

// Select 从解析出的候选列表中均匀随机选取一条回复。
func (s *responseService) Select(style, emotion string) string {
	candidates := Candidates(s.NormalizeStyle(style), emotion)
	s.mu.Lock()
	idx := s.rnd.Intn(len(candidates))
	s.mu.Unlock()
	return candidates[idx]
}
