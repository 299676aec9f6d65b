package document

// Combine merges overlay into base and returns a new map.
// Merge semantics:
//   - recursive: mappings present on both sides merge key by key,
//     sequences present on both sides concatenate (base first)
//   - scalar or mixed-type conflicts favor overlay
//   - not recursive: every top-level key of overlay replaces base's
func Combine(base, overlay map[string]any, recursive bool) map[string]any {
	if !recursive {
		result := copyMap(base)
		for key, overlayValue := range overlay {
			result[key] = DeepCopy(overlayValue)
		}
		return result
	}
	return combineInternal(base, overlay)
}

func combineInternal(base, overlay map[string]any) map[string]any {
	result := copyMap(base)

	for key, overlayValue := range overlay {
		baseValue, exists := result[key]
		if !exists {
			result[key] = DeepCopy(overlayValue)
			continue
		}

		// Both are mappings - recursive merge
		baseMap, baseIsMap := baseValue.(map[string]any)
		overlayMap, overlayIsMap := overlayValue.(map[string]any)
		if baseIsMap && overlayIsMap {
			result[key] = combineInternal(baseMap, overlayMap)
			continue
		}

		// Both are sequences - concatenate
		baseList, baseIsList := baseValue.([]any)
		overlayList, overlayIsList := overlayValue.([]any)
		if baseIsList && overlayIsList {
			merged := make([]any, 0, len(baseList)+len(overlayList))
			merged = append(merged, baseList...)
			merged = append(merged, DeepCopy(overlayList).([]any)...)
			result[key] = merged
			continue
		}

		// Default: replace
		result[key] = DeepCopy(overlayValue)
	}

	return result
}

// copyMap creates a shallow copy of a map.
func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// DeepCopy creates a deep copy of any document value.
func DeepCopy(value any) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = DeepCopy(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = DeepCopy(val)
		}
		return result
	case []string:
		result := make([]string, len(v))
		copy(result, v)
		return result
	default:
		// Scalars are immutable, return as-is
		return value
	}
}
