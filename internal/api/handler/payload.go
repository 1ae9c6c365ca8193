package handler

import (
	"strconv"
	"strings"
)

// Helpers para resolver os apelidos de campo dos payloads legados. O corpo
// chega como mapa porque cada cliente usa um nome diferente para o mesmo
// campo, às vezes como string, às vezes como número.

func payloadValue(body map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := body[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func payloadString(body map[string]any, keys ...string) string {
	value, ok := payloadValue(body, keys...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(coerceString(value))
}

// payloadStringPtr distingue campo ausente de campo presente vazio.
func payloadStringPtr(body map[string]any, keys ...string) *string {
	value, ok := payloadValue(body, keys...)
	if !ok {
		return nil
	}
	str := strings.TrimSpace(coerceString(value))
	return &str
}

func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func payloadFloat(body map[string]any, keys ...string) *float64 {
	value, ok := payloadValue(body, keys...)
	if !ok {
		return nil
	}
	parsed, ok := coerceFloat(value)
	if !ok {
		return nil
	}
	return &parsed
}

// positiveInt aceita números e strings numéricas, rejeitando frações e
// valores não positivos.
func positiveInt(value any) *int {
	parsed, ok := coerceFloat(value)
	if !ok {
		return nil
	}
	n := int(parsed)
	if float64(n) != parsed || n <= 0 {
		return nil
	}
	return &n
}

func payloadPositiveInt(body map[string]any, keys ...string) *int {
	value, ok := payloadValue(body, keys...)
	if !ok {
		return nil
	}
	return positiveInt(value)
}

// appendIDs aceita tanto um array de IDs quanto um valor escalar.
func appendIDs(ids []int, value any) []int {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if id := positiveInt(item); id != nil {
				ids = append(ids, *id)
			}
		}
	default:
		if id := positiveInt(value); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

var truthyFlags = map[string]bool{
	"1": true, "true": true, "yes": true, "y": true, "on": true,
	"add": true, "append": true, "novo": true, "nova": true, "create": true,
}

// parseBooleanFlag aceita booleanos, números e as palavras que os clientes
// legados usam para pedir criação explícita de um plano.
func parseBooleanFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return truthyFlags[strings.ToLower(strings.TrimSpace(v))]
	}
	return false
}

// queryInt lê um inteiro positivo da query string, aceitando o primeiro
// apelido presente.
func queryInt(values map[string][]string, keys ...string) *int {
	for _, key := range keys {
		list, ok := values[key]
		if !ok || len(list) == 0 {
			continue
		}
		return positiveInt(list[0])
	}
	return nil
}
