// Package fetch - platform.go provides platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known fiction hosting platform.
type Platform string

const (
	// PlatformGutenberg is Project Gutenberg
	PlatformGutenberg Platform = "gutenberg"
	// PlatformAO3 is Archive of Our Own
	PlatformAO3 Platform = "ao3"
	// PlatformMedium is Medium and its custom-domain publications
	PlatformMedium Platform = "medium"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "gutenberg.org") {
		return PlatformGutenberg
	}

	if strings.Contains(host, "archiveofourown.org") ||
		strings.Contains(host, "ao3.org") {
		return PlatformAO3
	}

	if strings.Contains(host, "medium.com") {
		return PlatformMedium
	}

	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGutenberg:
		return []string{
			"#pg-machine-header ~ div", // Text body after the boilerplate header
			".chapter",
			"body",
		}
	case PlatformAO3:
		return []string{
			".userstuff.module", // Work text
			".userstuff",
			"#chapters",
		}
	case PlatformMedium:
		return []string{
			"article",
			".postArticle-content",
			"section",
		}
	default:
		return StorySelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Comments and interaction
		"#comments",
		".comments",
		".comment-thread",

		// Author notes and metadata blocks
		".notes",
		".work.meta.group",
		".byline",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGutenberg:
		return append(common,
			"#pg-machine-header",
			"#pg-header",
			"#pg-footer",
			".pg-boilerplate",
		)
	case PlatformAO3:
		return append(common,
			".landmark",
			"#feedback",
			".download",
			".navigation.actions",
		)
	case PlatformMedium:
		return append(common,
			".metabar",
			".js-postActionsFooter",
			".responsesWrapper",
		)
	default:
		return common
	}
}
