package sqlite

import (
	"github.com/rpggio/focuslog/internal/domain/activity"
	"github.com/rpggio/focuslog/internal/domain/block"
	"github.com/rpggio/focuslog/internal/domain/category"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/domain/profile"
	"github.com/rpggio/focuslog/internal/domain/recategorize"
	"github.com/rpggio/focuslog/internal/domain/suggestion"
	"github.com/rpggio/focuslog/internal/domain/summary"
)

var (
	_ activity.Repository         = (*SampleRepository)(nil)
	_ classify.HistoryRepository  = (*SampleRepository)(nil)
	_ recategorize.Repository     = (*SampleRepository)(nil)
	_ summary.SampleLister        = (*SampleRepository)(nil)
	_ suggestion.SampleTimestamps = (*SampleRepository)(nil)
	_ block.Repository            = (*BlockRepository)(nil)
	_ category.Repository         = (*CategoryRepository)(nil)
	_ profile.Repository          = (*ProfileRepository)(nil)
	_ suggestion.Repository       = (*SuggestionRepository)(nil)
)
