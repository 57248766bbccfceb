package analytics

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmanalytics/miniapp/internal/model"
)

const (
	maxPostURLLength     = 2048
	maxAccountNameLength = 200
	maxBatchSize         = 500
)

// ValidateBatch checks an /analytics_add payload before it is stored.
func ValidateBatch(items []model.AnalyticsItem) error {
	if len(items) == 0 {
		return fmt.Errorf("data must not be empty")
	}
	if len(items) > maxBatchSize {
		return fmt.Errorf("data exceeds %d items", maxBatchSize)
	}
	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return nil
}

func validateItem(item *model.AnalyticsItem) error {
	return validation.ValidateStruct(item,
		validation.Field(&item.PostURL, validation.By(notBlank), validation.Length(1, maxPostURLLength)),
		validation.Field(&item.AccountName, validation.By(notBlank), validation.Length(1, maxAccountNameLength)),
		validation.Field(&item.Likes, validation.Min(0)),
		validation.Field(&item.Views, validation.Min(0)),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}
