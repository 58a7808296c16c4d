// diary-cli is a small terminal client for the pet diary server. Saved pet
// personas live in a local JSON file on this machine (the browser-local
// storage role); they are never sent anywhere except as fields of a new
// diary entry.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pet-diary/internal/personacache"
)

type diaryRecord struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	PetName   string    `json:"petName,omitempty"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	Content   string    `json:"content"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "pet diary server URL")
	cachePath := flag.String("personas-file", defaultCachePath(), "local saved-persona cache file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cache, err := personacache.New(*cachePath)
	if err != nil {
		log.Fatalf("❌ Failed to open persona cache: %v", err)
	}

	switch flag.Arg(0) {
	case "list":
		runList(*serverURL)
	case "new":
		runNew(*serverURL, cache, flag.Args()[1:])
	case "personas":
		runPersonas(cache)
	case "persona-delete":
		runPersonaDelete(cache, flag.Args()[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: diary-cli [flags] <command>

Commands:
  list             list diary entries
  new              create a diary entry from a photo
  personas         list locally saved pet personas
  persona-delete   delete a saved persona by id

Flags:
`)
	flag.PrintDefaults()
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "personas.json"
	}
	return filepath.Join(home, ".pet-diary", "personas.json")
}

func runList(serverURL string) {
	resp, err := http.Get(serverURL + "/diaries")
	if err != nil {
		log.Fatalf("❌ Request failed: %v", err)
	}
	defer resp.Body.Close()

	var records []diaryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		log.Fatalf("❌ Failed to decode response: %v", err)
	}
	for _, r := range records {
		name := r.PetName
		if name == "" {
			name = "(no name)"
		}
		fmt.Printf("%s  %s  %s\n    %s\n", r.CreatedAt.Format("2006-01-02"), r.ID, name, firstLine(r.Content))
	}
}

func runNew(serverURL string, cache *personacache.Cache, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	author := fs.String("author", "", "your name (required)")
	image := fs.String("image", "", "photo file path, or an image URL (required)")
	petName := fs.String("pet", "", "pet name")
	characteristics := fs.String("characteristics", "", "pet personality/traits")
	pronoun := fs.String("pronoun", "", "first-person pronoun for the diary voice")
	memo := fs.String("memo", "", "what happened today")
	usePersona := fs.Bool("use-persona", true, "fill characteristics/pronoun from the saved persona for this pet name")
	_ = fs.Parse(args)

	if *author == "" || *image == "" {
		fs.Usage()
		os.Exit(2)
	}

	if *usePersona && *petName != "" && (*characteristics == "" || *pronoun == "") {
		personas, err := cache.LoadAll()
		if err == nil {
			for _, p := range personas {
				if p.PetName != *petName {
					continue
				}
				if *characteristics == "" {
					*characteristics = p.PetCharacteristics
				}
				if *pronoun == "" {
					*pronoun = p.FirstPersonPronoun
				}
				if err := cache.TouchLastUsed(p.ID); err != nil {
					log.Printf("⚠️ Failed to touch persona: %v", err)
				}
				break
			}
		}
	}

	imageURL := *image
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		if _, err := os.Stat(imageURL); err == nil {
			imageURL = uploadImage(serverURL, imageURL)
		} else {
			imageURL = normalizeImageURL(imageURL)
		}
	}

	body := map[string]string{
		"author":   *author,
		"imageUrl": imageURL,
	}
	if *petName != "" {
		body["petName"] = *petName
	}
	if *characteristics != "" {
		body["petCharacteristics"] = *characteristics
	}
	if *pronoun != "" {
		body["firstPersonPronoun"] = *pronoun
	}
	if *memo != "" {
		body["memo"] = *memo
	}

	var rec diaryRecord
	postJSON(serverURL+"/diaries", body, http.StatusCreated, &rec)

	if *petName != "" {
		if _, err := cache.Save(*petName, *characteristics, *pronoun); err != nil {
			log.Printf("⚠️ Failed to save persona: %v", err)
		}
	}

	fmt.Printf("✅ Created %s\n\n%s\n", rec.ID, rec.Content)
}

func runPersonas(cache *personacache.Cache) {
	personas, err := cache.LoadAll()
	if err != nil {
		log.Fatalf("❌ Failed to load personas: %v", err)
	}
	for _, p := range personas {
		fmt.Printf("%s  %s  (%s)  last used %s\n", p.ID, p.PetName, p.FirstPersonPronoun, p.LastUsedAt.Format("2006-01-02"))
	}
}

func runPersonaDelete(cache *personacache.Cache, args []string) {
	fs := flag.NewFlagSet("persona-delete", flag.ExitOnError)
	id := fs.String("id", "", "persona id (required)")
	_ = fs.Parse(args)
	if *id == "" {
		fs.Usage()
		os.Exit(2)
	}
	if err := cache.Delete(*id); err != nil {
		log.Fatalf("❌ Failed to delete persona: %v", err)
	}
	fmt.Println("✅ Deleted")
}

func uploadImage(serverURL, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("❌ Failed to read image: %v", err)
	}
	var result struct {
		ImageURL string `json:"imageUrl"`
	}
	postJSON(serverURL+"/upload", map[string]string{
		"image":    base64.StdEncoding.EncodeToString(data),
		"filename": filepath.Base(path),
	}, http.StatusOK, &result)
	return result.ImageURL
}

func postJSON(url string, body any, wantStatus int, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("❌ Failed to encode request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("❌ Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(resp.Body)
		log.Fatalf("❌ Server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("❌ Failed to decode response: %v", err)
		}
	}
}

// normalizeImageURL roots relative image paths the way the server serves
// them: "images/x.png" and bare names become site-relative paths.
func normalizeImageURL(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "/") {
		return url
	}
	if strings.HasPrefix(url, "images/") {
		return "/" + url
	}
	return "/images/" + url
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
