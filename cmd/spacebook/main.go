package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spacebook/internal/api"
	"spacebook/internal/cmdlog"
	"spacebook/internal/config"
	"spacebook/internal/metrics"
	"spacebook/internal/model"
	"spacebook/internal/publish"
	"spacebook/internal/session"
	"spacebook/internal/social"
	"spacebook/internal/store/draftdb"
	"spacebook/internal/theme"
	"spacebook/internal/util"
	"spacebook/internal/validate"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "signup":
		cmdSignup()
	case "login":
		cmdLogin()
	case "logout":
		cmdLogout()
	case "whoami":
		cmdWhoami()
	case "draft":
		cmdDraft()
	case "post":
		cmdPost()
	case "schedule":
		cmdSchedule()
	case "feed":
		cmdFeed()
	case "like":
		cmdLike(true)
	case "unlike":
		cmdLike(false)
	case "profile":
		cmdProfile()
	case "friends":
		cmdFriends()
	case "requests":
		cmdRequests()
	case "search":
		cmdSearch()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: spacebook <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./spacebook.yaml")
	fmt.Println("  signup      Create a new account")
	fmt.Println("  login       Log in and store the session")
	fmt.Println("  logout      Invalidate and drop the session")
	fmt.Println("  whoami      Show the logged-in profile")
	fmt.Println("  draft       Manage local draft posts (save/list/edit/delete)")
	fmt.Println("  post        Post to a profile immediately")
	fmt.Println("  schedule    Publish a draft after a delay")
	fmt.Println("  feed        Show posts on a profile, edit or delete own posts")
	fmt.Println("  like        Like a friend's post")
	fmt.Println("  unlike      Remove a like from a friend's post")
	fmt.Println("  profile     Show or update a profile, manage the photo")
	fmt.Println("  friends     List friends, send requests")
	fmt.Println("  requests    Show/accept/reject friend requests")
	fmt.Println("  search      Find people")
}

func fail(err error) {
	if model.IsAuth(err) {
		fmt.Println("error:", err)
		fmt.Println("hint: run `spacebook login` to start a new session")
	} else {
		fmt.Println("error:", err)
	}
	os.Exit(1)
}

// env is the wiring every session-backed command needs.
type env struct {
	cfg    config.Config
	db     *draftdb.DB
	sess   *session.Manager
	client *api.Client
}

func openEnv(cfgPath string) (env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return env{}, err
	}
	metrics.StartServer(cfg.Metrics.Addr)
	db, err := draftdb.Open(cfg.Storage.DBPath)
	if err != nil {
		return env{}, err
	}
	sess := session.NewManager(db)
	token := ""
	if s, err := sess.Current(context.Background()); err == nil {
		token = s.Token
	}
	client := api.NewClient(cfg.Server.BaseURL, token,
		api.WithTimeout(time.Duration(cfg.Publisher.RequestTimeoutSeconds)*time.Second),
		api.WithRetry(cfg.Publisher.MaxAttempts, time.Duration(cfg.Publisher.BaseBackoffMillis)*time.Millisecond),
	)
	return env{cfg: cfg, db: db, sess: sess, client: client}, nil
}

func (e env) requireSession(ctx context.Context) (session.Session, error) {
	return e.sess.Current(ctx)
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./spacebook.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fail(err)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdSignup() {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (or SPACEBOOK_PASSWORD)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("signup", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		pw := *password
		if pw == "" {
			pw = os.Getenv("SPACEBOOK_PASSWORD")
		}
		if err := validate.Signup(*first, *last, *email, pw); err != nil {
			return err
		}
		ctx := context.Background()
		id, err := e.client.Register(ctx, *first, *last, api.Credentials{Email: *email, Password: pw})
		if err != nil {
			return err
		}
		fmt.Println("Account created, user id:", id)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	email := fs.String("email", "", "email address (defaults to config)")
	password := fs.String("password", "", "password (or SPACEBOOK_PASSWORD)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("login", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		addr := *email
		if addr == "" {
			addr = e.cfg.Account.Email
		}
		pw := *password
		if pw == "" {
			pw = os.Getenv("SPACEBOOK_PASSWORD")
		}
		if err := validate.Login(addr, pw); err != nil {
			return err
		}
		ctx := context.Background()
		res, err := e.client.Login(ctx, api.Credentials{Email: addr, Password: pw})
		if err != nil {
			return err
		}
		if err := e.sess.Set(ctx, res.UserID, res.Token); err != nil {
			return err
		}
		fmt.Println("Logged in as user", res.UserID)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdLogout() {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("logout", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		// Best effort server-side; the local session is cleared either way.
		if err := e.client.Logout(ctx); err != nil && !model.IsAuth(err) {
			fmt.Println("warning: server logout failed:", err)
		}
		if err := e.sess.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdWhoami() {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("whoami", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		u, err := e.client.GetUser(ctx, s.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s <%s> (id %s, %d friends)\n", u.FirstName, u.LastName, u.Email, u.ID, u.FriendCount)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdDraft() {
	sub := ""
	if len(os.Args) > 2 {
		sub = os.Args[2]
	}
	switch sub {
	case "save":
		cmdDraftSave()
	case "list":
		cmdDraftList()
	case "edit":
		cmdDraftEdit()
	case "delete":
		cmdDraftDelete()
	default:
		fmt.Println("Usage: spacebook draft <save|list|edit|delete> [options]")
	}
}

func cmdDraftSave() {
	fs := flag.NewFlagSet("draft save", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	text := fs.String("text", "", "draft text")
	_ = fs.Parse(os.Args[3:])
	err := cmdlog.Run("draft_save", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		if err := validate.DraftText(*text); err != nil {
			return err
		}
		d, err := e.db.SaveDraft(ctx, s.UserID, *text)
		if err != nil {
			return err
		}
		fmt.Printf("Draft %d saved\n", d.ID)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdDraftList() {
	fs := flag.NewFlagSet("draft list", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	_ = fs.Parse(os.Args[3:])
	err := cmdlog.Run("draft_list", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		drafts, err := e.db.ListDrafts(ctx, s.UserID)
		if err != nil {
			return err
		}
		if len(drafts) == 0 {
			fmt.Println("No drafts")
			return nil
		}
		for _, d := range drafts {
			fmt.Printf("%4d  %s  %s\n", d.ID, d.CreatedAt.Format("2006-01-02 15:04"), util.Truncate(d.Text, 60))
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdDraftEdit() {
	fs := flag.NewFlagSet("draft edit", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	id := fs.Int64("id", 0, "draft id")
	text := fs.String("text", "", "new draft text")
	_ = fs.Parse(os.Args[3:])
	err := cmdlog.Run("draft_edit", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		if err := validate.DraftText(*text); err != nil {
			return err
		}
		if err := e.db.UpdateDraft(ctx, *id, *text); err != nil {
			return err
		}
		fmt.Printf("Draft %d updated\n", *id)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdDraftDelete() {
	fs := flag.NewFlagSet("draft delete", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	id := fs.Int64("id", 0, "draft id")
	_ = fs.Parse(os.Args[3:])
	err := cmdlog.Run("draft_delete", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		if err := e.db.DeleteDraft(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("Draft %d deleted\n", *id)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdPost() {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	text := fs.String("text", "", "post text")
	user := fs.String("user", "", "profile to post on (defaults to own)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("post", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		if err := validate.DraftText(*text); err != nil {
			return err
		}
		target := *user
		if target == "" {
			target = s.UserID
		}
		if err := e.client.CreatePost(ctx, target, *text); err != nil {
			return err
		}
		fmt.Println("Posted")
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdSchedule() {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	draftID := fs.Int64("draft", 0, "draft id to publish")
	override := fs.String("text", "", "override text for this publish only")
	hours := fs.String("hours", "0", "delay hours")
	minutes := fs.String("minutes", "0", "delay minutes")
	seconds := fs.String("seconds", "0", "delay seconds")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("schedule", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		delay, err := publish.ParseDelay(*hours, *minutes, *seconds)
		if err != nil {
			return err
		}
		pub := publish.New(e.db, e.client)
		job, err := pub.Schedule(ctx, *draftID, *override, delay)
		if err != nil {
			return err
		}
		fmt.Printf("Draft %d scheduled to publish in %s\n", *draftID, delay)
		<-job.Done()
		if err := job.Err(); err != nil {
			if errors.Is(err, model.ErrDraftNotFound) {
				return fmt.Errorf("draft %d was deleted before the timer fired", *draftID)
			}
			return err
		}
		fmt.Printf("Draft %d published and removed\n", *draftID)
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdFeed() {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	user := fs.String("user", "", "profile to read (defaults to own)")
	show := fs.String("show", "", "post id to show on its own")
	edit := fs.String("edit", "", "post id to rewrite (with -text)")
	text := fs.String("text", "", "new text for -edit")
	del := fs.String("delete", "", "post id to delete")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("feed", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		target := *user
		if target == "" {
			target = s.UserID
		}
		switch {
		case *show != "":
			p, err := e.client.GetPost(ctx, target, *show)
			if err != nil {
				return err
			}
			fmt.Printf("[%s] %s %s (%d likes)\n  %s\n",
				p.Timestamp.Format("2006-01-02 15:04"), p.Author.FirstName, p.Author.LastName, p.Likes, p.Text)
			return nil
		case *edit != "":
			if err := validate.DraftText(*text); err != nil {
				return err
			}
			if err := e.client.UpdatePost(ctx, target, *edit, *text); err != nil {
				return err
			}
			fmt.Println("Post updated")
			return nil
		case *del != "":
			if err := e.client.DeletePost(ctx, target, *del); err != nil {
				return err
			}
			fmt.Println("Post deleted")
			return nil
		}
		posts, err := e.client.GetPosts(ctx, target)
		if err != nil {
			return err
		}
		for _, p := range posts {
			fmt.Printf("%s [%s] %s %s (%d likes)\n  %s\n",
				p.ID, p.Timestamp.Format("2006-01-02 15:04"), p.Author.FirstName, p.Author.LastName, p.Likes, p.Text)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdLike(like bool) {
	name := "like"
	if !like {
		name = "unlike"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	user := fs.String("user", "", "profile the post lives on")
	post := fs.String("post", "", "post id")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run(name, func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		if *user == "" || *post == "" {
			return &model.ValidationError{Field: "post", Message: "both -user and -post are required"}
		}
		if like {
			if err := e.client.LikePost(ctx, *user, *post); err != nil {
				return err
			}
			fmt.Println("Liked")
			return nil
		}
		if err := e.client.UnlikePost(ctx, *user, *post); err != nil {
			return err
		}
		fmt.Println("Unliked")
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdProfile() {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	user := fs.String("user", "", "profile to show (defaults to own)")
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	email := fs.String("email", "", "new email")
	password := fs.String("password", "", "new password")
	photoOut := fs.String("photo", "", "write profile photo to this file")
	photoIn := fs.String("set-photo", "", "upload this PNG as the profile photo")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("profile", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		target := *user
		if target == "" {
			target = s.UserID
		}
		if *photoIn != "" {
			png, err := os.ReadFile(*photoIn)
			if err != nil {
				return err
			}
			if err := e.client.UploadProfilePhoto(ctx, s.UserID, png); err != nil {
				return err
			}
			fmt.Println("Photo updated")
			return nil
		}
		if *first != "" || *last != "" || *email != "" || *password != "" {
			if *email != "" {
				if err := validate.Email(*email); err != nil {
					return err
				}
			}
			if *password != "" {
				if err := validate.Password(*password); err != nil {
					return err
				}
			}
			upd := api.UserUpdate{FirstName: *first, LastName: *last, Email: *email, Password: *password}
			if err := e.client.UpdateUser(ctx, s.UserID, upd); err != nil {
				return err
			}
			fmt.Println("Profile updated")
			return nil
		}
		u, err := e.client.GetUser(ctx, target)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s <%s> (id %s, %d friends)\n", u.FirstName, u.LastName, u.Email, u.ID, u.FriendCount)
		if *photoOut != "" {
			png, err := e.client.GetProfilePhoto(ctx, target)
			if err != nil {
				return err
			}
			if err := os.WriteFile(*photoOut, png, 0o644); err != nil {
				return err
			}
			fmt.Println("Photo written to", *photoOut)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdFriends() {
	fs := flag.NewFlagSet("friends", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	user := fs.String("user", "", "whose friends to list (defaults to own)")
	add := fs.String("add", "", "user id to send a friend request to")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("friends", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		if *add != "" {
			if err := e.client.SendFriendRequest(ctx, *add); err != nil {
				return err
			}
			fmt.Println("Friend request sent to", *add)
			return nil
		}
		target := *user
		if target == "" {
			target = s.UserID
		}
		friends, err := e.client.GetFriends(ctx, target)
		if err != nil {
			return err
		}
		for _, f := range friends {
			fmt.Printf("%s  %s %s <%s>\n", f.ID, f.FirstName, f.LastName, f.Email)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdRequests() {
	fs := flag.NewFlagSet("requests", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	accept := fs.String("accept", "", "user id to accept")
	reject := fs.String("reject", "", "user id to reject")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("requests", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		if _, err := e.requireSession(ctx); err != nil {
			return err
		}
		if *accept != "" {
			if err := e.client.AcceptFriendRequest(ctx, *accept); err != nil {
				return err
			}
			fmt.Println("Accepted", *accept)
			return nil
		}
		if *reject != "" {
			if err := e.client.RejectFriendRequest(ctx, *reject); err != nil {
				return err
			}
			fmt.Println("Rejected", *reject)
			return nil
		}
		reqs, err := e.client.GetFriendRequests(ctx)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			fmt.Println("No pending requests")
			return nil
		}
		for _, r := range reqs {
			fmt.Printf("%s  %s %s <%s>\n", r.UserID, r.FirstName, r.LastName, r.Email)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}

func cmdSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	cfgPath := fs.String("config", "./spacebook.yaml", "config path")
	query := fs.String("q", "", "search query")
	limit := fs.Int("limit", 20, "max results")
	all := fs.Bool("all", false, "include existing friends in results")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("search", func() error {
		e, err := openEnv(*cfgPath)
		if err != nil {
			return err
		}
		defer e.db.Close()
		ctx := context.Background()
		s, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		results, err := e.client.SearchUsers(ctx, *query, *limit)
		if err != nil {
			return err
		}
		if !*all {
			friends, err := e.client.GetFriends(ctx, s.UserID)
			if err != nil {
				return err
			}
			pending, err := e.client.GetFriendRequests(ctx)
			if err != nil {
				return err
			}
			results = social.FilterKnown(results, s.UserID, friends, pending)
		}
		if len(results) == 0 {
			fmt.Println("No results")
			return nil
		}
		for _, u := range results {
			fmt.Printf("%s  %s %s <%s>\n", u.ID, u.FirstName, u.LastName, u.Email)
		}
		return nil
	})
	if err != nil {
		fail(err)
	}
}
