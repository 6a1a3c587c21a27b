package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/uma-arai/sbcntr-eventwave/internal/i18n"
	"github.com/uma-arai/sbcntr-eventwave/internal/model"
	"github.com/uma-arai/sbcntr-eventwave/internal/service/view"
)

var commands = map[string]command{
	// 認証
	"signup": {
		usage:    "-username NAME -email EMAIL -password PASS [-role USER|ORGANIZER]",
		fallback: i18n.SignupFailed,
		run:      runSignup,
	},
	"login": {
		usage:    "-username NAME -password PASS",
		fallback: i18n.LoginFailed,
		run:      runLogin,
	},
	"logout": {
		usage: "",
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			if err := a.services.Auth.Logout(ctx); err != nil {
				return nil, err
			}
			return "Logged out", nil
		},
	},
	"dashboard": {
		usage:    "",
		fallback: i18n.ProfileLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return view.Dashboard(a.session)
		},
	},

	// プロフィール
	"profile": {
		usage:    "",
		fallback: i18n.ProfileLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.services.Users.Me(ctx)
		},
	},
	"profile-update": {
		usage:    "[-username NAME] [-email EMAIL]",
		fallback: i18n.ProfileUpdateFailed,
		run:      runProfileUpdate,
	},

	// イベント
	"events": {
		usage:    "",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.services.Events.List(ctx)
		},
	},
	"event": {
		usage:    "EVENT_ID",
		fallback: i18n.EventLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Events.Get(ctx, id)
		},
	},
	"event-details": {
		usage:    "EVENT_ID",
		fallback: i18n.EventDetailsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.flows.EventDetails(ctx, id)
		},
	},
	"search-title": {
		usage:    "QUERY",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			q, err := joinArgs(args, "query")
			if err != nil {
				return nil, err
			}
			return a.services.Events.SearchByTitle(ctx, q)
		},
	},
	"search-description": {
		usage:    "QUERY",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			q, err := joinArgs(args, "query")
			if err != nil {
				return nil, err
			}
			return a.services.Events.SearchByDescription(ctx, q)
		},
	},
	"category": {
		usage:    "CATEGORY",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			c, err := joinArgs(args, "category")
			if err != nil {
				return nil, err
			}
			return a.services.Events.ByCategory(ctx, c)
		},
	},
	"location": {
		usage:    "LOCATION",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			l, err := joinArgs(args, "location")
			if err != nil {
				return nil, err
			}
			return a.services.Events.ByLocation(ctx, l)
		},
	},
	"date-range": {
		usage:    "-from DATETIME -to DATETIME",
		fallback: i18n.EventsLoadFailed,
		run:      runDateRange,
	},
	"my-registrations": {
		usage:    "",
		fallback: i18n.RegistrationsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.services.Events.MyRegistrations(ctx)
		},
	},

	// ウィッシュリスト
	"wishlist": {
		usage:    "",
		fallback: i18n.WishlistLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.services.Wishlist.List(ctx)
		},
	},
	"wishlist-add": {
		usage:    "EVENT_ID",
		fallback: i18n.WishlistUpdateFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Wishlist.Add(ctx, id)
		},
	},
	"wishlist-remove": {
		usage:    "EVENT_ID",
		fallback: i18n.WishlistUpdateFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Wishlist.Remove(ctx, id)
		},
	},

	// 参加登録
	"register": {
		usage:    "EVENT_ID",
		fallback: i18n.RegisterFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Registrations.Register(ctx, id)
		},
	},
	"unregister": {
		usage:    "EVENT_ID",
		fallback: i18n.UnregisterFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.flows.Unregister(ctx, id)
		},
	},
	"attendees": {
		usage:    "EVENT_ID",
		fallback: i18n.AttendeesLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Registrations.Attendees(ctx, id)
		},
	},

	// 主催者
	"my-events": {
		usage:    "",
		fallback: i18n.EventsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.services.Organizer.MyEvents(ctx)
		},
	},
	"organizer-event": {
		usage:    "EVENT_ID",
		fallback: i18n.EventLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Organizer.Get(ctx, id)
		},
	},
	"create-event": {
		usage:    "-title T -date DATETIME [-description D] [-location L] [-category C] [-price P] [-capacity N]",
		fallback: i18n.EventSaveFailed,
		run:      runCreateEvent,
	},
	"update-event": {
		usage:    "EVENT_ID [-title T] [-date DATETIME] [-description D] [-location L] [-category C] [-price P] [-capacity N]",
		fallback: i18n.EventSaveFailed,
		run:      runUpdateEvent,
	},
	"delete-event": {
		usage:    "EVENT_ID",
		fallback: i18n.EventDeleteFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			if err := a.services.Organizer.Delete(ctx, id); err != nil {
				return nil, err
			}
			return fmt.Sprintf("Event %d deleted", id), nil
		},
	},

	// レビュー
	"reviews": {
		usage:    "EVENT_ID",
		fallback: i18n.EventDetailsLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Reviews.ForEvent(ctx, id)
		},
	},
	"organizer-reviews": {
		usage:    "EVENT_ID",
		fallback: i18n.FeedbackLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Reviews.ForOrganizerEvent(ctx, id)
		},
	},
	"review": {
		usage:    "EVENT_ID -rating 1-5 -feedback TEXT",
		fallback: i18n.ReviewSubmitFailed,
		run:      runReview,
	},
	"review-summary": {
		usage:    "EVENT_ID",
		fallback: i18n.FeedbackLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			id, err := parseID(args)
			if err != nil {
				return nil, err
			}
			return a.services.Reviews.Summary(ctx, id)
		},
	},
	"feedback": {
		usage:    "",
		fallback: i18n.FeedbackLoadFailed,
		run: func(ctx context.Context, a *app, args []string) (any, error) {
			return a.flows.AllFeedback(ctx)
		},
	},
}

func runSignup(ctx context.Context, a *app, args []string) (any, error) {
	fs := newFlagSet("signup")
	username := fs.String("username", "", "ユーザー名")
	email := fs.String("email", "", "メールアドレス")
	password := fs.String("password", "", "パスワード")
	role := fs.String("role", string(model.RoleUser), "USER または ORGANIZER")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *username == "" || *password == "" {
		return nil, fmt.Errorf("%w: -username and -password are required", errUsage)
	}
	parsedRole, err := model.ParseRole(*role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	if _, err := a.services.Auth.Register(ctx, model.Signup{
		Username: *username,
		Email:    *email,
		Password: *password,
		Role:     parsedRole,
	}); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Account %s created. Run `eventwave login` to sign in.", *username), nil
}

func runLogin(ctx context.Context, a *app, args []string) (any, error) {
	fs := newFlagSet("login")
	username := fs.String("username", "", "ユーザー名")
	password := fs.String("password", "", "パスワード")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *username == "" || *password == "" {
		return nil, fmt.Errorf("%w: -username and -password are required", errUsage)
	}

	if _, err := a.services.Auth.Login(ctx, model.Credentials{Username: *username, Password: *password}); err != nil {
		return nil, err
	}
	// ロールを解決できない場合はログイン状態を残さない
	dashboard, err := view.Dashboard(a.session)
	if err != nil {
		if logoutErr := a.services.Auth.Logout(ctx); logoutErr != nil {
			return nil, fmt.Errorf("%w (logout failed: %v)", err, logoutErr)
		}
		return nil, err
	}
	return fmt.Sprintf("Logged in as %s (%s)", *username, dashboard), nil
}

func runProfileUpdate(ctx context.Context, a *app, args []string) (any, error) {
	fs := newFlagSet("profile-update")
	username := fs.String("username", "", "ユーザー名")
	email := fs.String("email", "", "メールアドレス")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	profile, err := a.services.Users.Me(ctx)
	if err != nil {
		return nil, err
	}
	if *username != "" {
		profile.UserName = *username
	}
	if *email != "" {
		profile.Email = *email
	}
	return a.services.Users.Update(ctx, *profile)
}

func runDateRange(ctx context.Context, a *app, args []string) (any, error) {
	fs := newFlagSet("date-range")
	from := fs.String("from", "", "開始日時 (2006-01-02 または 2006-01-02T15:04:05)")
	to := fs.String("to", "", "終了日時")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *from == "" || *to == "" {
		return nil, fmt.Errorf("%w: both -from and -to are required", errUsage)
	}

	start, err := model.ParseLocalDateTime(*from)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	end, err := model.ParseLocalDateTime(*to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	return a.services.Events.ByDateRange(ctx, start.Time, end.Time)
}

// eventFlags はイベント作成・更新で共通のフラグです
type eventFlags struct {
	fs          *flag.FlagSet
	title       *string
	description *string
	location    *string
	category    *string
	price       *float64
	capacity    *int
	date        *string
}

func newEventFlags(name string) *eventFlags {
	fs := newFlagSet(name)
	return &eventFlags{
		fs:          fs,
		title:       fs.String("title", "", "タイトル"),
		description: fs.String("description", "", "説明"),
		location:    fs.String("location", "", "開催地"),
		category:    fs.String("category", "", "カテゴリ"),
		price:       fs.Float64("price", 0, "料金"),
		capacity:    fs.Int("capacity", 0, "定員"),
		date:        fs.String("date", "", "開催日時"),
	}
}

// apply は明示的に指定されたフラグだけを入力に反映します
func (f *eventFlags) apply(input *model.EventInput) error {
	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			input.Title = *f.title
		case "description":
			input.Description = *f.description
		case "location":
			input.Location = *f.location
		case "category":
			input.Category = strings.ToUpper(*f.category)
		case "price":
			input.Price = *f.price
		case "capacity":
			input.Capacity = *f.capacity
		case "date":
			var parsed model.LocalDateTime
			if parsed, err = model.ParseLocalDateTime(*f.date); err == nil {
				input.DateTime = parsed
			}
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func runCreateEvent(ctx context.Context, a *app, args []string) (any, error) {
	f := newEventFlags("create-event")
	if err := parseFlags(f.fs, args); err != nil {
		return nil, err
	}

	var input model.EventInput
	if err := f.apply(&input); err != nil {
		return nil, err
	}
	if input.Title == "" || input.DateTime.IsZero() {
		return nil, fmt.Errorf("%w: -title and -date are required", errUsage)
	}
	return a.services.Organizer.Create(ctx, input)
}

func runUpdateEvent(ctx context.Context, a *app, args []string) (any, error) {
	id, err := parseID(args)
	if err != nil {
		return nil, err
	}
	f := newEventFlags("update-event")
	if err := parseFlags(f.fs, args[1:]); err != nil {
		return nil, err
	}

	// 指定されなかった項目は現在の値を送る
	current, err := a.services.Organizer.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	input := current.Input()
	if err := f.apply(&input); err != nil {
		return nil, err
	}
	return a.services.Organizer.Update(ctx, id, input)
}

func runReview(ctx context.Context, a *app, args []string) (any, error) {
	id, err := parseID(args)
	if err != nil {
		return nil, err
	}
	fs := newFlagSet("review")
	rating := fs.Int("rating", 0, "評価 (1-5)")
	feedback := fs.String("feedback", "", "コメント")
	if err := parseFlags(fs, args[1:]); err != nil {
		return nil, err
	}
	if *rating < 1 || *rating > 5 {
		return nil, fmt.Errorf("%w: -rating must be between 1 and 5", errUsage)
	}
	if strings.TrimSpace(*feedback) == "" {
		return nil, fmt.Errorf("%w: -feedback is required", errUsage)
	}

	return a.services.Reviews.Submit(ctx, id, model.ReviewInput{Rating: *rating, Feedback: *feedback})
}
