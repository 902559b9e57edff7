package utils

// UniqueStrings removes duplicate values from a slice of strings, preserving
// first-seen order. Used to keep badge sets free of duplicates.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
