// Package cmdutil provides shared utilities for CLI command implementations.
package cmdutil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// GetStringConfig returns the config value for key, or flagValue if the key is not set.
// Flag values take precedence over config file values.
func GetStringConfig(key, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}

// GetBoolConfig returns the config value for key, or flagValue if the key is not set.
func GetBoolConfig(key string, flagValue bool) bool {
	if flagValue {
		return true
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return flagValue
}

// GetIntSliceConfig returns flagValue when given, otherwise the config value for key.
func GetIntSliceConfig(key string, flagValue []int) []int {
	if len(flagValue) > 0 {
		return flagValue
	}
	if configValue := viper.GetIntSlice(key); len(configValue) > 0 {
		return configValue
	}
	return flagValue
}

// ParseCallNums parses a call selection such as "0,2,5-7" into a sorted,
// de-duplicated list of call numbers. An empty string selects nothing.
func ParseCallNums(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid call number %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid call range %q", part)
			}
		}
		for n := start; n <= end; n++ {
			seen[n] = struct{}{}
		}
	}

	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums, nil
}
