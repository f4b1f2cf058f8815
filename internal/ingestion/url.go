package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/fetch"
	"github.com/AndrewMichael2020/literary-structure-generator/internal/validation"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// IngestFromURL fetches an exemplar story from a URL, extracts the prose,
// cleans it, and returns cleaned text with metadata.
// It uses platform detection to apply platform-specific selectors so that
// comments, author notes, and site chrome don't end up in the exemplar.
// If apiKey is provided, it uses the LLM to extract a structural outline.
// If useBrowser is true, falls back to headless browser for script-rendered
// readers that serve too little content over plain HTTP.
func IngestFromURL(ctx context.Context, urlStr string, apiKey string, useBrowser bool, verbose bool) (string, *Metadata, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidURL, urlStr)
	}

	// Detect platform for platform-specific selectors
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	// Fetch HTML using the generic fetch package
	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	// Get platform-specific selectors
	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)
	if verbose {
		log.Printf("[VERBOSE] Content selectors: %v", contentSelectors)
		log.Printf("[VERBOSE] Noise selectors count: %d", len(noiseSelectors))
	}

	// Extract text from HTML using platform-specific selectors and noise removal
	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	if verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(textContent))
	}

	// Check if we should use browser fallback for script-rendered readers
	if useBrowser && fetch.ShouldUseBrowser(textContent) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering...",
				len(textContent), fetch.MinContentLength)
		}

		browserHTML, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
			// Continue with HTTP content if browser fails
		} else {
			// Re-extract from browser-rendered HTML
			textContent, err = fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...)
			if err != nil {
				if verbose {
					log.Printf("[VERBOSE] Browser content extraction failed: %v", err)
				}
			} else if verbose {
				log.Printf("[VERBOSE] Browser extracted text: %d chars", len(textContent))
			}
		}
	}

	// Clean text
	cleanedText := CleanText(textContent)
	if verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleanedText))
	}

	// Exemplars are untrusted web text that later lands in LLM prompts;
	// flag anything that looks like embedded instructions.
	validation.LogInjectionWarning(validation.CheckBasicHeuristics(cleanedText), urlStr)

	// Generate metadata
	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)

	// If API key is provided, use LLM to extract a structural outline
	if apiKey != "" {
		if verbose {
			log.Printf("[VERBOSE] Calling LLM for structure extraction...")
		}
		structure, err := ExtractStructure(ctx, cleanedText, apiKey)
		if err == nil {
			if verbose {
				log.Printf("[VERBOSE] Structure extraction successful")
				log.Printf("[VERBOSE] Beats: %d", len(structure.Beats))
				log.Printf("[VERBOSE] Person: %s, Tense: %s", structure.Person, structure.Tense)
			}
			metadata.Title = structure.Title
			metadata.Structure = structure
		} else {
			if verbose {
				log.Printf("[VERBOSE] Structure extraction failed: %v, continuing without outline", err)
			}
		}
	}

	return cleanedText, metadata, nil
}
