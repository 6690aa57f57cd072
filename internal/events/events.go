package events

import (
	"sync"

	"go.uber.org/zap"
)

// Outcome 单次策略尝试的结局
type Outcome string

const (
	OutcomeSuccess Outcome = "success" // 产出通过校验的直链
	OutcomeFailure Outcome = "failure" // 策略返回错误
	OutcomeInvalid Outcome = "invalid" // 产出结果但直链未通过校验
)

// Sink 解析过程的事件接收器
// 注入而非全局打印, 测试可以断言事件序列
type Sink interface {
	ResolutionStarted(url string)
	StrategyAttempted(platform, strategy string, outcome Outcome, detail string)
	ResolutionCompleted(platform string, success bool)
}

// ZapSink 把事件写入结构化日志
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink 创建日志事件接收器
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) ResolutionStarted(url string) {
	s.logger.Info("resolution_started", zap.String("url", url))
}

func (s *ZapSink) StrategyAttempted(platform, strategy string, outcome Outcome, detail string) {
	s.logger.Info("strategy_attempted",
		zap.String("platform", platform),
		zap.String("strategy", strategy),
		zap.String("outcome", string(outcome)),
		zap.String("detail", detail))
}

func (s *ZapSink) ResolutionCompleted(platform string, success bool) {
	s.logger.Info("resolution_completed",
		zap.String("platform", platform),
		zap.Bool("success", success))
}

// Event 记录器捕获的单条事件
type Event struct {
	Name     string
	URL      string
	Platform string
	Strategy string
	Outcome  Outcome
	Detail   string
	Success  bool
}

// Recorder 测试用事件记录器
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder 创建事件记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ResolutionStarted(url string) {
	r.append(Event{Name: "resolution_started", URL: url})
}

func (r *Recorder) StrategyAttempted(platform, strategy string, outcome Outcome, detail string) {
	r.append(Event{Name: "strategy_attempted", Platform: platform, Strategy: strategy, Outcome: outcome, Detail: detail})
}

func (r *Recorder) ResolutionCompleted(platform string, success bool) {
	r.append(Event{Name: "resolution_completed", Platform: platform, Success: success})
}

// Events 返回已捕获事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) append(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
