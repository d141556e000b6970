package deck2pptx_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	deck2pptx "github.com/alnah/go-deck2pptx"
)

// Example demonstrates parsing a deck document.
func Example() {
	deckJSON := []byte(`{
		"name": "Q1 Review",
		"slides": [
			{"layout": "title", "content": {"title": "Q1 Review", "subtitle": "Revenue and roadmap"}},
			{"layout": "bullets", "content": {"title": "Highlights", "bullets": "Revenue up 12%\nTwo new regions"}}
		]
	}`)

	deck, err := deck2pptx.ParsePresentation(deckJSON)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%s: %d slides\n", deck.Name, len(deck.Slides))
	// Output: Q1 Review: 2 slides
}

// ExampleNewConverter demonstrates configuring a converter with options.
// Conversion itself requires Chrome; construction does not.
func ExampleNewConverter() {
	conv, err := deck2pptx.NewConverter(
		deck2pptx.WithVariant("screenshot"),
		deck2pptx.WithQuality("medium"),
		deck2pptx.WithAspectRatio("4:3"),
		deck2pptx.WithTimeout(2*time.Minute),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	fmt.Println("converter ready")
	// Output: converter ready
}

// ExampleConverter_Convert demonstrates a full conversion. It needs a
// running deck service and Chrome, so it is not executed as a test.
func ExampleConverter_Convert() {
	conv, err := deck2pptx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	deckJSON, err := os.ReadFile("q1-review.json")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, err := conv.Convert(context.Background(), deck2pptx.Input{
		DeckID:   "q1-review",
		BaseURL:  "http://localhost:3000",
		DeckJSON: deckJSON,
		Notes:    []string{"Welcome everyone", "Revenue grew 12%"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	os.WriteFile("q1-review.pptx", data, 0o644)
}

// ExampleConverter_ConvertPDF demonstrates PDF output through the viewer's
// print mode. It needs a running deck service and Chrome, so it is not
// executed as a test.
func ExampleConverter_ConvertPDF() {
	conv, err := deck2pptx.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	deckJSON, err := os.ReadFile("q1-review.json")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, err := conv.ConvertPDF(context.Background(), deck2pptx.Input{
		DeckID:   "q1-review",
		BaseURL:  "http://localhost:3000",
		DeckJSON: deckJSON,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	os.WriteFile("q1-review.pdf", data, 0o644)
}

// ExampleNewConverterPool demonstrates pool construction.
func ExampleNewConverterPool() {
	pool, err := deck2pptx.NewConverterPool(2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Close()

	conv := pool.Acquire()
	defer pool.Release(conv)

	fmt.Printf("pool size: %d\n", pool.Size())
	// Output: pool size: 2
}

// ExampleConverterPool_Acquire demonstrates parallel batch conversion.
// It needs a running deck service and Chrome, so it is not executed as
// a test.
func ExampleConverterPool_Acquire() {
	pool, err := deck2pptx.NewConverterPool(2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer pool.Close()

	decks := []string{"q1-review", "roadmap"}

	var wg sync.WaitGroup
	for _, id := range decks {
		wg.Add(1)
		go func(deckID string) {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				return
			}
			defer pool.Release(conv)

			deckJSON, err := os.ReadFile(deckID + ".json")
			if err != nil {
				fmt.Println("error:", err)
				return
			}

			data, err := conv.Convert(context.Background(), deck2pptx.Input{
				DeckID:   deckID,
				BaseURL:  "http://localhost:3000",
				DeckJSON: deckJSON,
			})
			if err != nil {
				fmt.Println("error:", err)
				return
			}
			os.WriteFile(deckID+".pptx", data, 0o644)
		}(id)
	}
	wg.Wait()
}

// ExampleSlide_Field demonstrates reading slide content fields.
func ExampleSlide_Field() {
	slide := deck2pptx.Slide{
		Layout: "quote",
		Content: map[string]string{
			"quote":       "Less, but better.",
			"attribution": "Dieter Rams",
		},
	}

	fmt.Println(slide.Field("attribution"))
	fmt.Println(slide.Field("missing") == "")
	// Output:
	// Dieter Rams
	// true
}
