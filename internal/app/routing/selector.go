package routing

import (
	"fmt"
	"strings"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// SelectNext decides which participant produces the next message. Rules,
// in order:
//
//  1. Empty history, or a last message that looks like an end-user turn
//     (unset author, the end-user sentinel, or a user role), goes to the
//     coordinator: it is the sole interface to the end user.
//  2. A last message from the coordinator is scanned (case-insensitively)
//     for trigger phrases requesting specialist help; the first matching
//     registered specialist is selected.
//  3. A last message from a specialist always hands control back to the
//     coordinator; specialists never address the end user.
//  4. Anything else defaults to the coordinator.
//
// The returned reason describes which rule fired; it is observability
// output only, never control flow.
func (p *CrewPolicy) SelectNext(history []*domain.Message, registry *Registry) (domain.ParticipantHandle, string) {
	coordinator, ok := registry.Lookup(p.coordinator)
	if !ok {
		return HandleNotFound, fmt.Sprintf("coordinator %q is not registered; cannot route", p.coordinator)
	}

	if len(history) == 0 {
		return coordinator, "history is empty; coordinator opens the conversation"
	}

	last := history[len(history)-1]
	if last.FromEndUser() {
		return coordinator, "last message is an end-user turn; coordinator handles the user"
	}

	if last.Author == p.coordinator {
		for _, name := range registry.Specialists() {
			term, _ := registry.DomainTerm(name)
			if specialistTriggered(last.Content, term) {
				handle, _ := registry.Lookup(name)
				return handle, fmt.Sprintf("coordinator requested help matching specialist %q", name)
			}
		}
		return coordinator, "coordinator spoke last with no specialist trigger; coordinator continues"
	}

	if registry.IsSpecialist(last.Author) {
		return coordinator, fmt.Sprintf("specialist %q hands control back to the coordinator", last.Author)
	}

	return coordinator, "no routing rule matched; defaulting to coordinator"
}

// specialistTriggered is the trigger-phrase heuristic, not a parser. Two
// independent disjuncts, each a conjunction; the operator precedence is
// load-bearing and must not be "cleaned up":
//
//	(find AND (solution OR connector)) OR (<domain term> AND check)
func specialistTriggered(content, domainTerm string) bool {
	c := strings.ToLower(content)

	if strings.Contains(c, "find") && (strings.Contains(c, "solution") || strings.Contains(c, "connector")) {
		return true
	}
	return strings.Contains(c, strings.ToLower(domainTerm)) && strings.Contains(c, "check")
}
