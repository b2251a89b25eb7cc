package engine

type MessageRuleFunc = func(c *MessageContext) error

// One entry of the filter pipeline. Filter names the per-filter configuration
// block (enabled flag, ignore lists, action) that gates the rule.
type MessageRule struct {
	Name   string
	Filter string
	Func   MessageRuleFunc
}

// Holds the ordered filter pipeline. Order is priority order: the first rule
// to declare a match ends evaluation for that message.
type RuleSet struct {
	MessageRules []MessageRule
}

// Executes the pipeline for one message. Each rule is skipped when its filter
// is disabled for the community or the message falls under the filter's
// ignore policy; otherwise the rule runs, and a declared match stops further
// evaluation.
func (r *RuleSet) CallMessageRules(c *MessageContext) error {
	for _, rule := range r.MessageRules {
		fc := c.Config.Filter(rule.Filter)
		if fc == nil || !fc.Enabled {
			continue
		}
		if IsIgnored(c.Message.ChannelID, c.Message.AuthorRoleIDs, fc) {
			continue
		}
		if err := rule.Func(c); err != nil {
			return err
		}
		if c.effects.MatchedFilter != "" {
			break
		}
	}
	return nil
}
