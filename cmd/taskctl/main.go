// taskctl is a command-line client for the taskboard API. It keeps the
// authenticated identity in ~/.taskboard/session.json and re-fetches the
// task list after every mutation, like the web client does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/primetrade/taskboard/pkg/client"
)

const usage = `usage: taskctl [-server URL] <command> [flags]

commands:
  signup   -name NAME -email EMAIL -password PASS
  login    -email EMAIL -password PASS
  logout
  list
  add      -title TITLE [-desc TEXT] [-status STATUS] [-image FILE]
  update   -id ID [-title TITLE] [-desc TEXT] [-status STATUS] [-image FILE]
  done     -id ID
  rm       -id ID
  profile
`

func main() {
	serverURL := flag.String("server", envOr("TASKBOARD_URL", "http://localhost:8080"), "API base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), *serverURL, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL, command string, args []string) error {
	store, err := client.NewSessionStore("")
	if err != nil {
		return err
	}

	c := client.New(serverURL)
	sess, err := store.Load()
	if err != nil {
		return err
	}
	if sess != nil {
		c.SetToken(sess.Token)
	}

	switch command {
	case "signup":
		return cmdSignup(ctx, c, store, args)
	case "login":
		return cmdLogin(ctx, c, store, args)
	case "logout":
		return store.Clear()
	case "list":
		return cmdList(ctx, c)
	case "add":
		return cmdAdd(ctx, c, args)
	case "update":
		return cmdUpdate(ctx, c, args)
	case "done":
		return cmdDone(ctx, c, args)
	case "rm":
		return cmdRemove(ctx, c, args)
	case "profile":
		return cmdProfile(ctx, c)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdSignup(ctx context.Context, c *client.Client, store *client.SessionStore, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	id, err := c.Signup(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	if err := saveSession(store, id); err != nil {
		return err
	}
	fmt.Printf("signed up as %s <%s>\n", id.Name, id.Email)
	return nil
}

func cmdLogin(ctx context.Context, c *client.Client, store *client.SessionStore, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	id, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := saveSession(store, id); err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\n", id.Name, id.Email)
	return nil
}

func cmdList(ctx context.Context, c *client.Client) error {
	tasks, err := c.Tasks(ctx)
	if err != nil {
		return err
	}
	printTasks(tasks)
	return nil
}

func cmdAdd(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "task title")
	desc := fs.String("desc", "", "task description")
	status := fs.String("status", "", "pending | in-progress | completed")
	imagePath := fs.String("image", "", "path to an image to attach")
	_ = fs.Parse(args)

	input := client.TaskInput{Title: title}
	if *desc != "" {
		input.Description = desc
	}
	if *status != "" {
		input.Status = status
	}
	closeFn, err := attachImage(&input, *imagePath)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := c.CreateTask(ctx, input); err != nil {
		return err
	}
	return cmdList(ctx, c)
}

func cmdUpdate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "task id")
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	status := fs.String("status", "", "new status")
	imagePath := fs.String("image", "", "path to a replacement image")
	_ = fs.Parse(args)

	// Only flags the user actually set become part of the update.
	var input client.TaskInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			input.Title = title
		case "desc":
			input.Description = desc
		case "status":
			input.Status = status
		}
	})
	closeFn, err := attachImage(&input, *imagePath)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := c.UpdateTask(ctx, *id, input); err != nil {
		return err
	}
	return cmdList(ctx, c)
}

func cmdDone(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("done", flag.ExitOnError)
	id := fs.String("id", "", "task id")
	_ = fs.Parse(args)

	completed := "completed"
	if _, err := c.UpdateTask(ctx, *id, client.TaskInput{Status: &completed}); err != nil {
		return err
	}
	return cmdList(ctx, c)
}

func cmdRemove(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.String("id", "", "task id")
	_ = fs.Parse(args)

	if err := c.DeleteTask(ctx, *id); err != nil {
		return err
	}
	return cmdList(ctx, c)
}

func cmdProfile(ctx context.Context, c *client.Client) error {
	id, err := c.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", id.Name, id.Email)
	if id.ProfilePicture != "" {
		fmt.Println(id.ProfilePicture)
	}
	return nil
}

func saveSession(store *client.SessionStore, id *client.Identity) error {
	return store.Save(&client.Session{
		UserID: id.ID,
		Name:   id.Name,
		Email:  id.Email,
		Token:  id.Token,
	})
}

func attachImage(input *client.TaskInput, path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	input.Image = f
	input.ImageFilename = f.Name()
	return func() { _ = f.Close() }, nil
}

func printTasks(tasks []client.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Status, t.Title)
	}
	_ = w.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
