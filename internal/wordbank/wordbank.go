// Package wordbank provides word pools for stimulus generation.
package wordbank

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Bank holds the word pools for one language.
type Bank struct {
	lang  string
	words []string
}

// Default word pools per language. Kept small on purpose; external
// wordlists extend them when present.
var pools = map[string][]string{
	"es": {
		"casa", "perro", "gato", "árbol", "agua", "fuego", "tierra", "cielo", "luna", "sol",
		"libro", "mesa", "silla", "ventana", "puerta", "flor", "jardín", "montaña", "río", "mar",
		"tiempo", "mundo", "vida", "amor", "paz", "guerra", "música", "arte", "color", "luz",
		"noche", "día", "hora", "minuto", "segundo", "año", "mes", "semana", "trabajo", "estudio",
		"familia", "amigo", "persona", "niño", "adulto", "ciudad", "país", "viaje", "camino", "coche",
		"tren", "avión", "barco", "comida", "fruta", "verdura", "pan", "leche", "café", "té",
		"escuela", "colegio", "universidad", "libertad", "salud", "mente", "cuerpo", "fuerza", "veloz", "lento",
		"feliz", "triste", "rápido", "claro", "oscuro", "alto", "bajo", "nuevo", "viejo", "grande",
		"izquierda", "derecha", "frente", "detrás", "dentro", "fuera", "primero", "último", "cerca", "lejos",
		"pequeño", "fácil", "difícil", "calor", "frío", "lluvia", "viento", "nieve", "tormenta", "valle",
	},
	"en": {
		"house", "dog", "cat", "tree", "water", "fire", "earth", "sky", "moon", "sun",
		"book", "table", "chair", "window", "door", "flower", "garden", "mountain", "river", "sea",
		"time", "world", "life", "love", "peace", "war", "music", "art", "color", "light",
		"night", "day", "hour", "minute", "second", "year", "month", "week", "work", "study",
		"family", "friend", "person", "child", "adult", "city", "country", "travel", "road", "car",
		"train", "plane", "boat", "food", "fruit", "vegetable", "bread", "milk", "coffee", "tea",
		"school", "college", "university", "freedom", "health", "mind", "body", "strength", "fast", "slow",
		"happy", "sad", "quick", "clear", "dark", "tall", "short", "new", "old", "large",
		"left", "right", "front", "back", "inside", "outside", "first", "last", "near", "far",
		"small", "easy", "hard", "heat", "cold", "rain", "wind", "snow", "storm", "valley",
	},
}

// Load builds a bank for the language, merging an external wordlist from dir
// when one exists. A missing or unreadable file is not an error; the embedded
// pool is always available.
func Load(lang, dir string) *Bank {
	b := &Bank{lang: lang, words: embedded(lang)}
	if dir == "" {
		return b
	}
	extra, err := loadFile(filepath.Join(dir, lang+".txt"))
	if err != nil {
		return b
	}
	seen := make(map[string]struct{}, len(b.words))
	for _, w := range b.words {
		seen[w] = struct{}{}
	}
	for _, w := range extra {
		if _, ok := seen[w]; !ok {
			b.words = append(b.words, w)
			seen[w] = struct{}{}
		}
	}
	return b
}

func embedded(lang string) []string {
	if words, ok := pools[lang]; ok {
		return append([]string(nil), words...)
	}
	// Unknown language falls back to the broadest pool available.
	return append([]string(nil), pools["es"]...)
}

// Words returns the full pool.
func (b *Bank) Words() []string {
	return b.words
}

// Lang returns the bank's language code.
func (b *Bank) Lang() string {
	return b.lang
}

// ByLength returns words of exactly n runes. When the pool has none, the
// filter relaxes to ±1 rune; if still empty, the whole pool is returned so
// callers always get a usable set.
func (b *Bank) ByLength(n int) []string {
	exact := filterLength(b.words, n, 0)
	if len(exact) > 0 {
		return exact
	}
	relaxed := filterLength(b.words, n, 1)
	if len(relaxed) > 0 {
		return relaxed
	}
	return b.Words()
}

func filterLength(words []string, n, slack int) []string {
	var out []string
	for _, w := range words {
		l := len([]rune(w))
		if l >= n-slack && l <= n+slack {
			out = append(out, w)
		}
	}
	return out
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
