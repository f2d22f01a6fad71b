// flex.go - Tolerant number decoding for model output

package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleFloat64 unmarshals from a JSON number, a numeric string ("12.50",
// "1,250"), or null. Extraction models use all three interchangeably.
type FlexibleFloat64 float64

func (f *FlexibleFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexibleFloat64(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("cannot unmarshal %s as float64 or string", string(data))
	}

	str = strings.TrimSpace(strings.ReplaceAll(str, ",", ""))
	str = strings.TrimPrefix(str, "₪")
	if str == "" {
		*f = 0
		return nil
	}

	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("cannot parse string %q as float64: %w", str, err)
	}
	*f = FlexibleFloat64(num)
	return nil
}
