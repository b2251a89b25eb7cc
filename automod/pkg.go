package automod

import (
	"github.com/wardenlabs/warden/automod/countstore"
	"github.com/wardenlabs/warden/automod/engine"
)

type Engine = engine.Engine
type EvaluationResult = engine.EvaluationResult
type RuleSet = engine.RuleSet
type MessageRule = engine.MessageRule

type Notifier = engine.Notifier
type SlackNotifier = engine.SlackNotifier

var NewSlackNotifier = engine.NewSlackNotifier

type MessageContext = engine.MessageContext
type MessageRuleFunc = engine.MessageRuleFunc

var (
	PeriodTotal = countstore.PeriodTotal
	PeriodDay   = countstore.PeriodDay
	PeriodHour  = countstore.PeriodHour
)
