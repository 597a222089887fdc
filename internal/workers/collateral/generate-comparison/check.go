package generatecomparison

import (
	"fmt"
	"strings"

	"collateral-pipeline/internal/models"
)

// checkComparison rejects a comparison against the product itself and
// verdict lists that miss or repeat a skin type.
func checkComparison(productName string) func(doc map[string]interface{}) error {
	return func(doc map[string]interface{}) error {
		name, _ := doc["product_b_name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("product_b_name is empty")
		}
		if strings.EqualFold(name, strings.TrimSpace(productName)) {
			return fmt.Errorf("product_b_name %q names the product itself", name)
		}

		seen := map[string]int{}
		verdicts, _ := doc["verdicts"].([]interface{})
		for _, v := range verdicts {
			if m, ok := v.(map[string]interface{}); ok {
				if st, ok := m["skin_type"].(string); ok {
					seen[st]++
				}
			}
		}
		for _, st := range models.SkinTypes {
			if seen[st] != 1 {
				return fmt.Errorf("expected exactly one %s verdict, got %d", st, seen[st])
			}
		}
		return nil
	}
}
