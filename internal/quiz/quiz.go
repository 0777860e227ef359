// Package quiz は学習アイテムのシャッフルと、テストモードの選択肢問題を作ります
package quiz

import (
	"math/rand/v2"

	"neon_quizlet/internal/model"
)

// DistractorCount は1問あたりの誤答選択肢の最大数です
const DistractorCount = 3

// Shuffle は items のコピーを一様にシャッフルして返します。items 自体は変更しません
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	// rand.Shuffle は Fisher-Yates
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Generate は terms の順序のまま1語につき1問を作ります。
// 誤答は allDefinitions から正解と同じ文字列を除いたもの (重複はそのまま) をシャッフルして先頭3つです。
// 候補が3つに満たなければ選択肢は4つより少なくなります
func Generate(rng *rand.Rand, terms []model.Term, allDefinitions []string) []model.QuizQuestion {
	questions := make([]model.QuizQuestion, 0, len(terms))
	for _, term := range terms {
		candidates := make([]string, 0, len(allDefinitions))
		for _, def := range allDefinitions {
			if def != term.Definition {
				candidates = append(candidates, def)
			}
		}
		candidates = Shuffle(rng, candidates)
		if len(candidates) > DistractorCount {
			candidates = candidates[:DistractorCount]
		}

		options := Shuffle(rng, append(candidates, term.Definition))
		correctIndex := 0
		for i, opt := range options {
			if opt == term.Definition {
				correctIndex = i
				break
			}
		}

		questions = append(questions, model.QuizQuestion{
			TermID:       term.ID,
			Term:         term.Term,
			Definition:   term.Definition,
			Options:      options,
			CorrectIndex: correctIndex,
		})
	}
	return questions
}
