package loader

import (
	"fmt"
	"strconv"
	"strings"
)

// columnAliases maps the column headers Meta exports (Spanish locale)
// to the internal metric names. Headers not found here fall through to
// the keyword heuristics in normalizeHeader.
var columnAliases = map[string]string{
	"Nombre del anuncio":                      "ad_name",
	"Importe gastado (ARS)":                   "spend",
	"Resultados":                              "results",
	"Conversaciones con mensajes iniciadas":   "msg_init",
	"Contactos de mensajes":                   "msg_contacts",
	"Clics en el enlace":                      "link_clicks",
	"Visitas al perfil de Instagram":          "ig_profile",
	"Objetivo":                                "objective",
	"Ubicación de la conversión":              "placement",
	"Inicio del informe":                      "date_start",
	"Fin del informe":                         "date_end",
	"Alcance":                                 "reach",
	"Impresiones":                             "impressions",
	"Frecuencia":                              "frequency",
	"CTR (tasa de clics en el enlace)":        "ctr",
	"CPC (costo por clic en el enlace)":       "cpc",
	"CPM (costo por 1.000 impresiones)":       "cpm",
	"Clientes potenciales":                    "leads",
	"Costo por cliente potencial":             "cpl",
	"Compras":                                 "purchases",
	"ROAS (retorno del gasto en anuncios)":    "roas",
	"Valor de conversión de compras":          "conversion_value",
	"Interacciones con la publicación":        "interactions",
	"Reproducciones de video":                 "video_views",
	"ThruPlays":                               "thruplay",
}

// normalizeHeader resolves one raw column header to an internal name.
// Returns "" for columns the pipeline does not consume.
func normalizeHeader(raw string) string {
	clean := strings.TrimSpace(raw)
	if name, ok := columnAliases[clean]; ok {
		return name
	}

	lower := strings.ToLower(clean)
	switch {
	case containsAny(lower, "gasto", "spent", "spend", "importe"):
		return "spend"
	case lower == "resultados" || lower == "results" || lower == "result":
		return "results"
	case strings.Contains(lower, "clic") && strings.Contains(lower, "enlace"):
		return "link_clicks"
	case lower == "clics" || lower == "clicks":
		return "link_clicks"
	case containsAny(lower, "nombre", "name", "anuncio"):
		return "ad_name"
	case lower == "objective" || lower == "objetivo":
		return "objective"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseNumber coerces one Meta cell to a float. Exports carry percent
// signs, decimal commas and blanks; anything unparseable reads as 0 so
// a dirty cell never aborts a run.
func parseNumber(raw string) float64 {
	clean := strings.TrimSpace(raw)
	clean = strings.ReplaceAll(clean, "%", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// headerIndex maps normalized column names to their position in the
// header row. Duplicate normalized names keep the first position.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, raw := range header {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func cell(row []string, idx map[string]int, name string) (string, bool) {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}

func numericCell(row []string, idx map[string]int, name string) float64 {
	raw, ok := cell(row, idx, name)
	if !ok {
		return 0
	}
	return parseNumber(raw)
}

// syntheticName fills in ad names when the export has no usable name
// column.
func syntheticName(i int) string {
	return fmt.Sprintf("Ad_%d", i)
}
