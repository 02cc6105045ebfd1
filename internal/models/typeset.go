package models

import (
	"sort"
	"strings"
)

// typesSeparator — разделитель при хранении множества типов одной строкой в БД.
const typesSeparator = ";"

// NormalizeTypes приводит список типов к каноническому виду:
// убирает пробелы и пустые элементы, устраняет дубликаты, сортирует.
func NormalizeTypes(types []string) []string {
	seen := make(map[string]struct{}, len(types))
	result := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// JoinTypes сериализует множество типов в строку для хранения в БД.
func JoinTypes(types []string) string {
	return strings.Join(NormalizeTypes(types), typesSeparator)
}

// SplitTypes разбирает строку из БД обратно в множество типов.
func SplitTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	return NormalizeTypes(strings.Split(raw, typesSeparator))
}

// EqualTypeSets сравнивает два списка типов как множества.
func EqualTypeSets(a, b []string) bool {
	na, nb := NormalizeTypes(a), NormalizeTypes(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

// ContainsType проверяет наличие типа в списке.
func ContainsType(types []string, target string) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

// DiffCategories возвращает категории из target, отсутствующие в current,
// и категории из current, отсутствующие в target. Используется при
// сверке подписок пользователя.
func DiffCategories(current, target []string) (toInsert, toDelete []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, c := range current {
		currentSet[c] = struct{}{}
	}
	targetSet := make(map[string]struct{}, len(target))
	for _, c := range target {
		targetSet[c] = struct{}{}
		if _, ok := currentSet[c]; !ok {
			toInsert = append(toInsert, c)
		}
	}
	for _, c := range current {
		if _, ok := targetSet[c]; !ok {
			toDelete = append(toDelete, c)
		}
	}
	sort.Strings(toInsert)
	sort.Strings(toDelete)
	return toInsert, toDelete
}
