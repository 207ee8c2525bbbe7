package mdtree

import (
	"github.com/goliatone/go-mdtree/internal/runtimeconfig"
	"github.com/goliatone/go-mdtree/transformers"
)

var (
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrMarkdownPatternInvalid     = runtimeconfig.ErrMarkdownPatternInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	ConversionConfig     = runtimeconfig.ConversionConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// TransformersFor returns the transformer list selected by cfg.
func TransformersFor(cfg ConversionConfig) []transformers.Transformer {
	if cfg.Extended {
		return transformers.Extended()
	}
	return transformers.Defaults()
}

// OptionsFor maps cfg onto per-call options.
func OptionsFor(cfg ConversionConfig) []Option {
	return []Option{
		WithPreserveNewlines(cfg.PreserveNewlines),
		WithNormalize(cfg.Normalize),
	}
}
