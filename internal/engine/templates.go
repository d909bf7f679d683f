package engine

import (
	"fmt"
	"strings"

	"github.com/oddshoes/birdie/internal/brand"
	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/intent"
)

type composeFunc func(k *brand.Knowledge) chat.Reply

var templates = map[intent.Label]composeFunc{
	intent.Greeting:   greeting,
	intent.Farewell:   farewell,
	intent.Pricing:    pricing,
	intent.Genesis:    genesis,
	intent.Kingdom:    kingdom,
	intent.AI:         aiAutomation,
	intent.Billy:      billyPods,
	intent.TechStack:  techStack,
	intent.Team:       team,
	intent.About:      about,
	intent.Values:     values,
	intent.GiveHim50:  giveHim50,
	intent.Portfolio:  portfolio,
	intent.Contact:    contact,
	intent.Location:   location,
	intent.Timeline:   timeline,
	intent.GetStarted: getStarted,
	intent.DontDo:     dontDo,
	intent.Process:    process,
	intent.Mobile:     mobile,
	intent.Scripture:  scripture,
	intent.Help:       help,
}

func bullets(items []string, format string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf(format, it)
	}
	return strings.Join(lines, "\n")
}

func link(label, url string) *chat.CTA {
	return &chat.CTA{Label: label, URL: url}
}

func greeting(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("Hey there! 👋 Welcome to **%s** — we're a startup studio in %s building production-grade apps for Christian founders.\n\n"+
			"We give **50%% of our profits** to Kingdom work through our Give Him 50 initiative.\n\n"+
			"What brings you here today?", k.Name, cityOf(k.Location)),
		QuickReplies: []string{"Tell me about your services", "How much does it cost?", "I want to build something", "Who are you guys?"},
	}
}

func farewell(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: "God bless you! 🙏 If you ever need to build something amazing, we're right here.\n\n" +
			"*\"Whatever you do, work at it with all your heart, as working for the Lord.\"* — Col 3:23\n\n" +
			"Reach us anytime at **" + k.Email + "**",
		CTA: link("Launch Project Planner", k.SiteURL),
	}
}

func pricing(k *brand.Knowledge) chat.Reply {
	s := k.Services
	return chat.Reply{
		Text: "Great question! Our pricing is tailored to each project — we discuss budget openly in our **Project Planner** process.\n\n" +
			"Here's what we offer:\n\n" +
			fmt.Sprintf("🔨 **%s** (5-day MVP) — Perfect for testing an idea quickly\n", s.Genesis.Name) +
			fmt.Sprintf("👑 **%s** (14-day + 6mo support) — Full product system with brand\n", s.Kingdom.Name) +
			fmt.Sprintf("🤖 **%s** — OpenClaw deployment + custom AI skills\n\n", s.AI.Name) +
			"We're not the cheapest — but we're **world-class**, and 50% goes to Kingdom work. You're not just building an app; you're funding missionaries.\n\n" +
			"Want to explore which service fits your budget?",
		QuickReplies: []string{"Tell me about " + s.Genesis.Name, "What's " + s.Kingdom.Name + "?", "Launch Project Planner"},
		CTA:          link("Start Project Planner →", k.SiteURL),
	}
}

func genesis(k *brand.Knowledge) chat.Reply {
	g := k.Services.Genesis
	steps := make([]string, len(g.Process))
	for i, st := range g.Process {
		steps[i] = fmt.Sprintf("• **%s** — %s", st.Step, st.Desc)
	}
	return chat.Reply{
		Text: fmt.Sprintf("## 🔨 %s\n*%s*\n\n**Timeline:** %s\n**Price:** %s\n**Perfect for:** %s\n\n**What you get:**\n%s\n\n**The 5-Day Process:**\n%s\n\n"+
			"Ready to go from idea to launched product in one work week? 🚀",
			g.Name, g.Subtitle, g.Timeline, g.Price, g.PerfectFor, bullets(g.Includes, "• %s"), strings.Join(steps, "\n")),
		QuickReplies: []string{"I'm interested!", "What about " + k.Services.Kingdom.Name + "?", "What tech stack?"},
		CTA:          link("Start Your "+g.Name+" →", k.SiteURL),
	}
}

func kingdom(k *brand.Knowledge) chat.Reply {
	p := k.Services.Kingdom
	return chat.Reply{
		Text: fmt.Sprintf("## 👑 %s\n*%s*\n\n**Timeline:** %s\n**Capacity:** %s\n**Price:** %s\n**Perfect for:** %s\n\n**What you get:**\n%s\n\n"+
			"**Fractional CTO Support (6 months):**\n%s\n\n"+
			"This is the full package — brand, product, AI, and ongoing support. We only take **%s**, so spots fill fast.",
			p.Name, p.Subtitle, p.Timeline, p.Capacity, p.Price, p.PerfectFor, bullets(p.Includes, "• %s"), p.CTOSupport, p.Capacity),
		QuickReplies: []string{"I want this!", "How much?", "Tell me about Genesis instead"},
		CTA:          link("Apply for "+p.Name+" →", k.SiteURL),
	}
}

func aiAutomation(k *brand.Knowledge) chat.Reply {
	a := k.Services.AI
	var opts strings.Builder
	for i, o := range a.Options {
		if i > 0 {
			opts.WriteString("\n\n")
		}
		fmt.Fprintf(&opts, "**%s** (%s)\n%s", o.Name, o.When, o.Desc)
	}
	return chat.Reply{
		Text: fmt.Sprintf("## 🤖 %s\n*%s*\n\n**Three options:**\n\n%s\n\n**Example AI skills we've built:**\n%s\n\n"+
			"We use **OpenClaw** — our open-source AI agent framework. What kind of automation are you thinking about?",
			a.Name, a.Subtitle, opts.String(), bullets(a.ExampleSkills, "• \"%s\"")),
		QuickReplies: []string{"I need custom AI skills", "What's OpenClaw?", "Tell me about " + k.Services.Kingdom.Name},
	}
}

func billyPods(k *brand.Knowledge) chat.Reply {
	p := k.Services.BillyPods
	return chat.Reply{
		Text: fmt.Sprintf("## 👥 %s\n\n%s\n\nNeed extra hands on your team? %s give you **vetted, coordinated interns** who can help your team ship faster.\n\n"+
			"Interested in a Pod for your project?", p.Name, p.Desc, p.Name),
		QuickReplies: []string{"Request a Pod", "Tell me about other services", "Get in touch"},
		CTA:          link("Request a Pod →", k.SiteURL),
	}
}

func techStack(k *brand.Knowledge) chat.Reply {
	t := k.TechStack
	j := func(items []string) string { return strings.Join(items, " · ") }
	return chat.Reply{
		Text: fmt.Sprintf("## ⚙️ Our Tech Stack\n*Production-grade tools, battle-tested and built to scale.*\n\n"+
			"**Backend:** %s\n\n**Frontend:** %s\n\n**CMS:** %s\n\n**AI & Automation:** %s\n\n**Dev Tools:** %s\n\n**Hosting:** %s\n\n"+
			"We pick the right stack for each project — no one-size-fits-all. What are you building?",
			j(t.Backend), j(t.Frontend), j(t.CMS), j(t.AI), j(t.DevTools), j(t.Hosting)),
		QuickReplies: []string{"I need a web app", "I need a mobile app", "I need AI/automation"},
	}
}

func team(k *brand.Knowledge) chat.Reply {
	members := make([]string, len(k.Team))
	for i, m := range k.Team {
		members[i] = fmt.Sprintf("**%s** — %s", m.Name, m.Role)
	}
	return chat.Reply{
		Text: fmt.Sprintf("## 🎸 Meet the Team\n*A small but mighty crew of designers, developers, and dreamers based in %s.*\n\n%s\n\n"+
			"Average age: **%d** · Team of **%d**\n\n"+
			"We're worshippers first, engineers second. Every sprint starts with prayer. 🙏",
			cityOf(k.Location), strings.Join(members, "\n\n"), k.AvgAge, k.TeamSize),
		QuickReplies: []string{"What's your story?", "What are your values?", "I want to work with you"},
	}
}

func about(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("## About %s\n*%s*\n\n%s\n\n**Mission:** %s\n\n**Identity:** %s\n**Location:** %s\n**Founded:** %d\n**Team size:** %d\n\n"+
			"**By the numbers:** %s MVPs shipped · %s products live · %s to launch\n"+
			"**Behind the scenes:** %s lines of code · %s cups of coffee · %s laptops survived · %s worship songs\n\n"+
			"A place where faith isn't a footnote — it's the **foundation**. ✝️",
			k.Name, k.Tagline, k.Story, k.Mission, k.Identity, k.Location, k.Founded, k.TeamSize,
			k.Stats.MVPsShipped, k.Stats.ProductsLive, k.Stats.LaunchTime,
			k.Stats.LinesOfCode, k.Stats.CupsOfCoffee, k.Stats.LaptopsSurvived, k.Stats.WorshipSongs),
		QuickReplies: []string{"What are your values?", "What services do you offer?", "Tell me about Give Him 50"},
	}
}

func values(k *brand.Knowledge) chat.Reply {
	vs := make([]string, len(k.Values))
	for i, v := range k.Values {
		vs[i] = fmt.Sprintf("**%s**\n%s", v.Name, v.Desc)
	}
	return chat.Reply{
		Text: "## Our Values\n\n" + strings.Join(vs, "\n\n") +
			"\n\nThese aren't just words on a wall — they're how we make every decision. 🔥",
		QuickReplies: []string{"Tell me about Give Him 50", "What services do you offer?", "I love this, let's build!"},
	}
}

func giveHim50(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: "## 💛 Give Him 50\n\n" + k.GiveHim50 + "\n\n" +
			"**What it's funded so far:**\n• 5 missionaries supported\n• 3 church plants\n• Kingdom initiatives across East Africa\n\n" +
			"When you work with " + k.Name + ", you're not just getting a great product — **half of what you pay goes directly to advancing God's Kingdom.**\n\n" +
			"Every line of code has purpose. Every invoice funds a missionary. 🙌",
		QuickReplies: []string{"That's amazing!", "Tell me about your services", "I want to build something"},
	}
}

func portfolio(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("## 🏆 Our Work\n*%s MVPs shipped · %s products live*\n\nSome projects we've brought to life:\n\n%s\n\n"+
			"From SaaS & AI products to web platforms and mobile apps — we've helped founders across East Africa and beyond go from napkin sketch to launched product.\n\n"+
			"Want to see the full portfolio?",
			k.Stats.MVPsShipped, k.Stats.ProductsLive, bullets(k.Portfolio, "• **%s**")),
		QuickReplies: []string{"Visit " + k.Website, "I want something similar", "What services do you offer?"},
		CTA:          link("View All Projects →", k.SiteURL),
	}
}

func contact(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("## 📬 Let's Connect!\n\n**Email:** %s\n**Phone:** %s\n**Location:** %s\n\n"+
			"You can also:\n• **Launch our Project Planner** to share your vision\n• **Book a call** to chat with the team\n\n"+
			"We typically respond within 24 hours. What works best for you?", k.Email, k.Phone, k.Location),
		QuickReplies: []string{"Launch Project Planner", "Book a call", "Send an email"},
		CTA:          link("Launch Project Planner →", k.SiteURL),
	}
}

func location(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("We're based in **%s** 🇺🇬 — proudly African, globally minded!\n\n"+
			"We work with founders across East Africa and internationally. Distance is never a barrier — we're built for remote collaboration.\n\n"+
			"*\"Africa Rising\"* is one of our core values. The next tech revolution starts here. 🌍", k.Location),
		QuickReplies: []string{"Tell me about the team", "What services do you offer?", "How do I get started?"},
	}
}

func timeline(k *brand.Knowledge) chat.Reply {
	s := k.Services
	return chat.Reply{
		Text: "## ⏱️ Our Timelines\n\n" +
			fmt.Sprintf("**%s:** 5 days (Mon-Fri, idea to launched product)\n", s.Genesis.Name) +
			fmt.Sprintf("**%s:** 14-day sprint + 6 months CTO support\n", s.Kingdom.Name) +
			fmt.Sprintf("**%s:** Instant (DIY) to 2-5 days (custom)\n", s.AI.Name) +
			fmt.Sprintf("**%s:** Ongoing as needed\n\n", s.BillyPods.Name) +
			"We don't do months-long builds. We move **fast** — because your God-given idea deserves to be in the world, not in a backlog.\n\n" +
			"Which timeline works for your project?",
		QuickReplies: []string{s.Genesis.Name + " (5 days)", s.Kingdom.Name + " (14 days)", "I need it ASAP"},
	}
}

func getStarted(k *brand.Knowledge) chat.Reply {
	s := k.Services
	return chat.Reply{
		Text: "🚀 **Let's build something that matters!**\n\nHere's how to get started:\n\n" +
			"**1. Launch our Project Planner** — Share your vision, budget, and timeline\n" +
			"**2. Discovery Call** — We listen, validate, and align on God's purpose\n" +
			"**3. Strategy Sprint** — Deep-dive planning\n" +
			"**4. Build & Ship** — Weekly demos, fast delivery\n\n" +
			"Which service interests you?\n" +
			fmt.Sprintf("• 🔨 **%s** — 5-day MVP ($)\n", s.Genesis.Name) +
			fmt.Sprintf("• 👑 **%s** — 14-day full product ($$)\n", s.Kingdom.Name) +
			fmt.Sprintf("• 🤖 **%s** — Custom AI solutions", s.AI.Name),
		QuickReplies: []string{s.Genesis.Name, s.Kingdom.Name, s.AI.Name, "Not sure yet"},
		CTA:          link("Launch Project Planner →", k.SiteURL),
	}
}

func dontDo(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("## What We Don't Do\n\n**Projects we decline:**\n%s\n\n**What we don't offer:**\n%s\n\n"+
			"We're selective because we want every project to align with our mission. If your project honors God and serves people — let's talk! 🙏",
			bullets(k.DontDo.ProjectsDeclined, "• %s"), bullets(k.DontDo.NotOffered, "• %s")),
		QuickReplies: []string{"What DO you do?", "Tell me about your services", "Get in touch"},
	}
}

func process(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: "## How It Works\n*From prayer to product* 🙏→🚀\n\n" +
			"**Step 1: Discovery Call**\nWe listen to your vision, validate your idea, and align on God's purpose for your startup.\n\n" +
			"**Step 2: Strategy Sprint**\nDeep-dive planning — user research, competitive analysis, tech architecture, go-to-market.\n\n" +
			"**Step 3: Build & Ship**\nOur team designs and develops your MVP with weekly demos so you always know where things stand.\n\n" +
			"**Step 4: Launch & Grow**\nWe don't disappear after launch. We help you get your first users, refine the product, and prepare for investors.\n\n" +
			"Ready to start the journey?",
		QuickReplies: []string{"Let's do it!", "How long does it take?", "How much does it cost?"},
		CTA:          link("Start Your Journey →", k.SiteURL),
	}
}

func mobile(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: "## 📱 Mobile Apps\n\nWe build mobile apps with **React Native** — one codebase for both iOS and Android.\n\n" +
			"Combined with our backend expertise (Django/FastAPI/Laravel), we deliver full-stack mobile solutions.\n\n" +
			fmt.Sprintf("Our **%s** package is perfect for mobile app projects — it includes 14 days of intensive building plus 6 months of support.\n\n", k.Services.Kingdom.Name) +
			"What kind of app are you thinking about?",
		QuickReplies: []string{"Tell me about " + k.Services.Kingdom.Name, "What's your tech stack?", "I want to get started"},
	}
}

func scripture(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: k.Scripture.Main + "\n\n" + k.Scripture.About + "\n\n" +
			"These aren't just quotes to us — they're the operating system of " + k.Name + ". We code as worship. We ship as service. 🙏",
		QuickReplies: []string{"Tell me about " + k.Name, "What's Give Him 50?", "I want to build something"},
	}
}

func help(k *brand.Knowledge) chat.Reply {
	s := k.Services
	return chat.Reply{
		Text: "Here's what I can help you with! 🙌\n\n**Our Services:**\n" +
			fmt.Sprintf("🔨 **%s** — 5-day MVP for pre-revenue founders\n", s.Genesis.Name) +
			fmt.Sprintf("👑 **%s** — 14-day full product + 6mo support\n", s.Kingdom.Name) +
			fmt.Sprintf("🤖 **%s** — OpenClaw, custom AI agents, workflow automation\n", s.AI.Name) +
			fmt.Sprintf("👥 **%s** — Vetted intern teams for your project\n\n", s.BillyPods.Name) +
			"**I can also tell you about:**\n• Our team & story\n• Tech stack & process\n• Give Him 50 (our generosity model)\n• Pricing & timelines\n• Portfolio & past work\n\n" +
			"What interests you?",
		QuickReplies: []string{s.Genesis.Name, s.Kingdom.Name, s.AI.Name, "Get started"},
	}
}

func welcome(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: fmt.Sprintf("Hey! 👋 I'm the %s AI assistant. I'm here to help you learn about our services and get your project started.\n\n"+
			"**%s** is a startup studio in %s building production-grade apps for Christian founders — and we give 50%% of profits to Kingdom work.\n\n"+
			"What would you like to know?", k.Name, k.Name, cityOf(k.Location)),
		QuickReplies: []string{"What services do you offer?", "How much does it cost?", "Who are you?", "I want to build something"},
	}
}

func escalate(k *brand.Knowledge) chat.Reply {
	return chat.Reply{
		Text: "That's a great question! While I might not have the exact answer, here's what I'd suggest:\n\n" +
			"📧 **Email us directly** at " + k.Email + " for specific questions\n" +
			"📋 **Launch our Project Planner** to share your vision and we'll get back to you fast\n" +
			"📞 **Book a call** to speak with the team\n\n" +
			"Or ask me about our **services**, **pricing**, **team**, or **process** — I know all about those! 😊",
		QuickReplies: []string{"Tell me about your services", "How does pricing work?", "Launch Project Planner"},
		CTA:          link("Email "+k.Email, "mailto:"+k.Email),
	}
}

// cityOf returns the part of a "City, Country" location before the comma.
func cityOf(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}
