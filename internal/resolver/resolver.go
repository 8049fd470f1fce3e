package resolver

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

// DefaultEnemyHP is used when a detected creature has no stated HP and
// no vocabulary default.
const DefaultEnemyHP = 10

// creatureHP lists known creature types with their default HP. Detection
// is case-insensitive; names are title-cased before storage.
var creatureHP = map[string]int{
	"goblin":   7,
	"orc":      15,
	"ogre":     30,
	"dragon":   50,
	"skeleton": 13,
	"zombie":   22,
	"troll":    40,
	"wolf":     11,
	"bandit":   11,
	"spider":   10,
	"kobold":   5,
	"rat":      3,
	"ghoul":    22,
	"slime":    8,
	"imp":      10,
	"wraith":   25,
	"cultist":  9,
	"golem":    45,
}

// nonItems are nouns that the inventory patterns frequently catch but
// that are never pickups.
var nonItems = map[string]bool{
	"room": true, "door": true, "path": true, "way": true, "passage": true,
	"corridor": true, "exit": true, "entrance": true, "wall": true,
	"floor": true, "ceiling": true, "stairs": true, "stairway": true,
	"cave": true, "tunnel": true, "clearing": true, "chamber": true,
	"hall": true, "village": true, "town": true, "moment": true,
	"breath": true, "glimpse": true, "chance": true,
}

var (
	titleCaser = cases.Title(language.English)

	combatTriggerRe = regexp.MustCompile(`(?i)\b(attack(s|ed)?|fight(s|ing)?|engage[sd]?|battle|ambush(es|ed)?|initiative|appears?|emerges?|lunges?|charges?)\b`)

	vocabRe   = regexp.MustCompile(`(?i)\b(` + vocabAlternation() + `)\b(?:\s*\((\d+)\s*HP\))?`)
	genericRe = regexp.MustCompile(`\b(?:[Aa]n?|[Tt]he)\s+([A-Z][a-zA-Z]*(?:\s[A-Z][a-zA-Z]*)*)(?:\s*\((\d+)\s*HP\))?\s+(?:appears|attacks|emerges|lunges|charges|ambushes)`)

	// Damage surface patterns. Each yields (target, amount).
	dealsRe    = regexp.MustCompile(`(?i)deals\s+(\d+)\s+damage\s+to\s+(?:the\s+|an?\s+)?([A-Za-z][A-Za-z' ]*)`)
	takesRe    = regexp.MustCompile(`(?i)(?:the\s+|an?\s+)?([A-Za-z][A-Za-z' ]*?)\s+takes\s+(\d+)\s+damage`)
	suffersRe  = regexp.MustCompile(`(?i)(?:the\s+|an?\s+)?([A-Za-z][A-Za-z' ]*?)\s+suffers\s+(\d+)\s+damage`)
	damageToRe = regexp.MustCompile(`(?i)(\d+)\s+damage\s+to\s+(?:the\s+|an?\s+)?([A-Za-z][A-Za-z' ]*)`)
	strikesRe  = regexp.MustCompile(`(?i)strikes\s+(?:the\s+|an?\s+)?([A-Za-z][A-Za-z' ]*?)\s+for\s+(\d+)\s+damage`)

	// Healing surface patterns.
	healsRe    = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z' ]*?)\s+(?:heals|recovers|regains|gains)\s+(\d+)\s+(?:HP|health|hit points)`)
	restoredRe = regexp.MustCompile(`(?i)(\d+)\s+(?:HP|health|hit points)\s+(?:is\s+|are\s+)?restored\s+to\s+([A-Za-z][A-Za-z' ]*)`)

	// Inventory surface patterns.
	itemGainRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z' ]*?)\s+(?:finds|discovers|receives|loots|picks up|is given)\s+(?:a|an|the|some)\s+([a-zA-Z][a-zA-Z ]{0,40}?)(?:[.,!;:\n]|$)`)
	itemLossRe = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z' ]*?)\s+(?:uses|drops|loses|discards)\s+(?:a|an|the|his|her|their)\s+([a-zA-Z][a-zA-Z ]{0,40}?)(?:[.,!;:\n]|$)`)
)

func vocabAlternation() string {
	parts := make([]string, 0, len(creatureHP))
	for name := range creatureHP {
		parts = append(parts, name)
	}
	return strings.Join(parts, "|")
}

// damage is one extracted (target, amount) candidate.
type damage struct {
	target string
	amount int
}

// Resolver extracts state deltas from narration text. It is a
// best-effort pattern matcher, not a parser: ambiguous text may be
// mis-extracted or ignored, and unmatched text never produces an error.
type Resolver struct {
	logger *slog.Logger
}

// New creates a resolver.
func New(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Apply runs the fixed resolution pipeline against the narration text,
// mutating the session in place: combat detection, enemy damage, player
// damage, player healing, inventory changes, combat-end check.
func (r *Resolver) Apply(s *game.Session, text string) {
	r.detectCombat(s, text)
	r.applyEnemyDamage(s, text)
	r.applyPlayerDamage(s, text)
	r.applyHealing(s, text)
	r.applyInventory(s, text)

	if s.Combat.Active && s.Combat.AllDefeated() {
		r.logger.Debug("All enemies defeated, ending combat", "session_id", s.ID)
		s.Combat.End()
	}
}

// detectCombat activates combat when combat-initiation phrasing appears
// together with at least one recognizable enemy. Turn order is all
// current player names followed by all enemy names.
func (r *Resolver) detectCombat(s *game.Session, text string) {
	if s.Combat.Active || !combatTriggerRe.MatchString(text) {
		return
	}

	enemies := r.detectEnemies(text)
	if len(enemies) == 0 {
		return
	}

	order := make([]string, 0, len(s.Players)+len(enemies))
	for _, p := range s.Roster() {
		order = append(order, p.Name)
	}
	for _, e := range enemies {
		order = append(order, e.Name)
	}

	s.Combat.Begin(enemies, order)
	r.logger.Debug("Combat started",
		"session_id", s.ID,
		"enemies", len(enemies),
		"order", order)
}

func (r *Resolver) detectEnemies(text string) []*game.Enemy {
	var enemies []*game.Enemy
	seen := make(map[string]bool)

	add := func(name string, hp int) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		if hp <= 0 {
			if def, ok := creatureHP[key]; ok {
				hp = def
			} else {
				hp = DefaultEnemyHP
			}
		}
		seen[key] = true
		enemies = append(enemies, &game.Enemy{Name: titleCaser.String(key), HP: hp})
	}

	for _, m := range vocabRe.FindAllStringSubmatch(text, -1) {
		hp := 0
		if m[2] != "" {
			hp, _ = strconv.Atoi(m[2])
		}
		add(m[1], hp)
	}

	// Generic "a/the <Name> appears/attacks" with a capitalized name
	for _, m := range genericRe.FindAllStringSubmatch(text, -1) {
		hp := 0
		if m[2] != "" {
			hp, _ = strconv.Atoi(m[2])
		}
		add(m[1], hp)
	}

	return enemies
}

// damagePatterns are tried in precedence order. Each entry names the
// submatch index of the target and of the amount. The bare "N damage
// to Y" pattern comes last because it is a substring of the fuller
// phrasings; overlapping spans are claimed first-match-wins so one
// sentence never counts twice.
var damagePatterns = []struct {
	re          *regexp.Regexp
	target, amt int
}{
	{dealsRe, 2, 1},
	{strikesRe, 1, 2},
	{takesRe, 1, 2},
	{suffersRe, 1, 2},
	{damageToRe, 2, 1},
}

// extractDamage collects (target, amount) candidates from all damage
// surface patterns.
func extractDamage(text string) []damage {
	var out []damage
	var claimed [][2]int

	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c[1] && end > c[0] {
				return true
			}
		}
		return false
	}

	for _, p := range damagePatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(idx[0], idx[1]) {
				continue
			}
			claimed = append(claimed, [2]int{idx[0], idx[1]})
			n, _ := strconv.Atoi(text[idx[2*p.amt] : idx[2*p.amt+1]])
			out = append(out, damage{
				target: text[idx[2*p.target] : idx[2*p.target+1]],
				amount: n,
			})
		}
	}

	return out
}

func (r *Resolver) applyEnemyDamage(s *game.Session, text string) {
	if !s.Combat.Active {
		return
	}
	for _, d := range extractDamage(text) {
		enemy := s.Combat.FindEnemy(strings.TrimSpace(d.target))
		if enemy == nil {
			continue
		}
		enemy.TakeDamage(d.amount)
		r.logger.Debug("Enemy damaged",
			"session_id", s.ID,
			"enemy", enemy.Name,
			"damage", d.amount,
			"hp", enemy.HP)
	}
}

func (r *Resolver) applyPlayerDamage(s *game.Session, text string) {
	for _, d := range extractDamage(text) {
		player := s.PlayerByName(strings.TrimSpace(d.target))
		if player == nil {
			continue
		}
		player.TakeDamage(d.amount)
		r.logger.Debug("Player damaged",
			"session_id", s.ID,
			"player", player.Name,
			"damage", d.amount,
			"hp", player.HP)
	}
}

func (r *Resolver) applyHealing(s *game.Session, text string) {
	apply := func(name string, amount int) {
		player := s.PlayerByName(strings.TrimSpace(name))
		if player == nil {
			return
		}
		player.Heal(amount)
		r.logger.Debug("Player healed",
			"session_id", s.ID,
			"player", player.Name,
			"healing", amount,
			"hp", player.HP)
	}

	for _, m := range healsRe.FindAllStringSubmatch(text, -1) {
		n, _ := strconv.Atoi(m[2])
		apply(m[1], n)
	}
	for _, m := range restoredRe.FindAllStringSubmatch(text, -1) {
		n, _ := strconv.Atoi(m[1])
		apply(m[2], n)
	}
}

func (r *Resolver) applyInventory(s *game.Session, text string) {
	for _, m := range itemGainRe.FindAllStringSubmatch(text, -1) {
		player := s.PlayerByName(strings.TrimSpace(m[1]))
		item := game.NormalizeItem(m[2])
		if player == nil || nonItems[item] {
			continue
		}
		if player.AddItem(item) {
			r.logger.Debug("Item gained",
				"session_id", s.ID,
				"player", player.Name,
				"item", item)
		}
	}

	for _, m := range itemLossRe.FindAllStringSubmatch(text, -1) {
		player := s.PlayerByName(strings.TrimSpace(m[1]))
		item := game.NormalizeItem(m[2])
		if player == nil || nonItems[item] {
			continue
		}
		if player.RemoveItem(item) {
			r.logger.Debug("Item lost",
				"session_id", s.ID,
				"player", player.Name,
				"item", item)
		}
	}
}
