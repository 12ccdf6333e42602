// Command social is a CLI client for the social API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ---- token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "social")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "social")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `social CLI
Usage:
  social -addr URL <cmd> [args]

Commands:
  version
  register   -e <email> -p <password> [-phone <number>]
  login      -e <email> -p <password>                 (saves token)
  users
  user       -id <uuid>
  posts      [-limit n] [-skip n] [-search s] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  post       -id <uuid>
  add        -title <t> -content <c> [-draft]
  edit       -id <uuid> -title <t> -content <c> [-draft]
  rm         -id <uuid>
  like       -id <uuid>
  unlike     -id <uuid>
`)
	os.Exit(2)
}

// authed returns a client carrying the saved token.
func authed(addr string) *client {
	tok, err := loadToken()
	if err != nil {
		fail(err)
	}
	return newClient(addr, tok)
}

func needID(fs *flag.FlagSet, args []string) string {
	id := fs.String("id", "", "uuid")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	return *id
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands.
func main() {
	addr := flag.String("addr", "http://localhost:8000", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {
	case "version":
		fmt.Printf("social %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		phone := fs.String("phone", "", "phone number")
		_ = fs.Parse(args)
		if *e == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -e and -p")
			os.Exit(1)
		}
		out, err := newClient(*addr, "").register(ctx, *e, *p, *phone)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *e == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -e and -p")
			os.Exit(1)
		}
		tok, exp, err := newClient(*addr, "").login(ctx, *e, *p)
		if err != nil {
			fail(err)
		}
		if err := saveToken(tok, exp); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "users":
		out, err := authed(*addr).get(ctx, "/users")
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "user":
		id := needID(flag.NewFlagSet("user", flag.ExitOnError), args)
		out, err := newClient(*addr, "").get(ctx, "/users/"+id)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "posts":
		fs := flag.NewFlagSet("posts", flag.ExitOnError)
		var q postQuery
		fs.IntVar(&q.Limit, "limit", 0, "page size")
		fs.IntVar(&q.Skip, "skip", 0, "offset")
		fs.StringVar(&q.Search, "search", "", "title substring")
		fs.StringVar(&q.From, "from", "", "start date YYYY-MM-DD")
		fs.StringVar(&q.To, "to", "", "end date YYYY-MM-DD")
		_ = fs.Parse(args)
		out, err := authed(*addr).posts(ctx, q)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "post":
		id := needID(flag.NewFlagSet("post", flag.ExitOnError), args)
		out, err := authed(*addr).get(ctx, "/posts/"+id)
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "add", "edit":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "post id (edit only)")
		title := fs.String("title", "", "title")
		content := fs.String("content", "", "content")
		draft := fs.Bool("draft", false, "do not publish")
		_ = fs.Parse(args)
		if *title == "" || *content == "" || (cmd == "edit" && *id == "") {
			fmt.Fprintln(os.Stderr, "need -title and -content (and -id for edit)")
			os.Exit(1)
		}
		c := authed(*addr)
		var (
			out map[string]any
			err error
		)
		if cmd == "add" {
			out, err = c.createPost(ctx, *title, *content, !*draft)
		} else {
			out, err = c.updatePost(ctx, *id, *title, *content, !*draft)
		}
		if err != nil {
			fail(err)
		}
		printJSON(out)

	case "rm":
		id := needID(flag.NewFlagSet("rm", flag.ExitOnError), args)
		if err := authed(*addr).deletePost(ctx, id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "like", "unlike":
		id := needID(flag.NewFlagSet(cmd, flag.ExitOnError), args)
		dir := 1
		if cmd == "unlike" {
			dir = 0
		}
		msg, err := authed(*addr).like(ctx, id, dir)
		if err != nil {
			fail(err)
		}
		fmt.Println(msg)

	default:
		usage()
	}
}
