// Package graphfile загружает графы из файлов.
//
// Поддерживаемые форматы (выбираются по расширению):
//   - .json        — формат редактора графов: {"nodes": [...], "edges": [...]}
//   - .yaml / .yml — тот же документ в YAML
//   - .hcl         — блоки node "<id>" { ... } и edge { ... }
//
// Все форматы дают одинаковый domain.Graph для эквивалентных документов.
package graphfile
