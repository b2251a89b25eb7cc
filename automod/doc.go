// Automated moderation rules engine for chat communities.
//
// This package (`github.com/wardenlabs/warden/automod`) contains a "rules engine" that evaluates every inbound chat message against a pipeline of content filters: banned words, link sharing, spam runs, message floods, and excessive caps. Filters record intended side-effects (message removal, warnings), and the engine applies them after evaluation: warnings accumulate on a per-user ledger with time-based expiry, and crossing a configured threshold escalates to a timeout, kick, or ban. Per-community configuration decides which filters run, where they are ignored, and how offenders are punished.
//
// See `cmd/warden` for a daemon built on this package.
package automod
