package form

import "fmt"

// WorkLabel заголовок записи опыта работы на позиции pos (с единицы) в списке длины n.
// Первая запись самая свежая, последняя самая ранняя.
func WorkLabel(pos, n int) string {
	label := fmt.Sprintf("Company %d", pos)
	switch {
	case pos == 1:
		return label + " (Most Recent - Senior)"
	case pos == n:
		return label + " (Earliest - Junior)"
	default:
		return label
	}
}

// EducationLabel заголовок записи об образовании на позиции pos (с единицы).
func EducationLabel(pos int) string {
	return fmt.Sprintf("Education %d", pos)
}
