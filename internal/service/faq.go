package service

import (
	"strings"
)

type faqEntry struct {
	category string
	keywords []string
	answer   string
}

// faqTable is scanned in order; the category with the most keyword hits wins
// and earlier categories win ties
var faqTable = []faqEntry{
	{
		category: "payment",
		keywords: []string{"payment", "pay", "money", "cash", "card", "mobile money", "momo"},
		answer: `**Payment Options on Jiji.com.gh:**

• **Mobile Money** - MTN Mobile Money, AirtelTigo Money, Vodafone Cash
• **Bank Transfer** - Direct bank transfers to seller accounts
• **Cash on Delivery** - Pay when item is delivered (where available)
• **Credit/Debit Cards** - Visa, Mastercard accepted

**Safety Tips:**
• Always use Jiji's secure payment system
• Avoid sending money before seeing the item
• Use escrow services for high-value items`,
	},
	{
		category: "shipping",
		keywords: []string{"shipping", "delivery", "transport", "courier", "send"},
		answer: `**Shipping & Delivery:**

• **Seller Arranged** - Most sellers arrange their own delivery
• **Pickup Available** - Meet sellers in safe, public locations
• **Courier Services** - Professional courier companies available
• **Delivery Time** - Usually 1-5 business days within Ghana

**Delivery Locations:**
• All major cities: Accra, Kumasi, Tamale, Cape Coast
• Rural areas may have additional charges`,
	},
	{
		category: "returns",
		keywords: []string{"return", "refund", "exchange", "warranty", "guarantee"},
		answer: `**Returns & Refunds:**

• **Return Policy** - Varies by seller (check individual listings)
• **Condition** - Items must be in original condition
• **Timeframe** - Usually 7-14 days from delivery
• **Process** - Contact seller first, then Jiji support if needed

**Protection:**
• Jiji Buyer Protection available on eligible items
• Report issues through the platform
• Keep all communication on Jiji for protection`,
	},
	{
		category: "safety",
		keywords: []string{"safe", "security", "scam", "fraud", "trust", "legitimate"},
		answer: `**Shopping Safely on Jiji:**

**Red Flags to Avoid:**
• Prices too good to be true
• Sellers asking for payment outside Jiji
• No phone verification or reviews
• Pressure to complete transaction quickly

**Safety Tips:**
• Check seller ratings and reviews
• Use Jiji's messaging system
• Meet in public places for pickup
• Inspect items before payment
• Use secure payment methods`,
	},
	{
		category: "account",
		keywords: []string{"account", "profile", "login", "register", "sign up", "password"},
		answer: `**Account Management:**

**Creating Account:**
• Visit jiji.com.gh and click "Register"
• Verify your phone number
• Add profile information

**Account Features:**
• Save favorite items
• Track your orders
• Manage listings (if selling)
• View purchase history
• Update personal information

**Forgot Password:** Use the "Forgot Password" link on login page`,
	},
}

const (
	aboutJijiAnswer = `**About Jiji.com.gh:**

Jiji is Ghana's largest online marketplace where you can:
• Buy and sell almost anything
• Find great deals from verified sellers
• Shop safely with buyer protection
• Connect with local sellers

**Popular Categories:**
• Mobile Phones & Tablets
• Cars & Vehicles
• Electronics & Computers
• Fashion & Beauty
• Home & Furniture`

	howToBuyAnswer = `**How to Buy on Jiji:**

1. **Search** - Use the search bar or browse categories
2. **Filter** - Set your budget, location, and preferences
3. **Contact** - Message the seller through Jiji
4. **Negotiate** - Discuss price and delivery
5. **Pay Safely** - Use Jiji's secure payment options
6. **Receive** - Get your item delivered or arrange pickup

**Tips for Better Results:**
• Be specific in your search terms
• Check seller ratings before buying
• Ask questions about the product condition
• Negotiate respectfully`

	helpMenuAnswer = `**I'm here to help!**

I can assist you with:
• **Product searches** - Find items on Jiji.com.gh
• **Payment information** - Learn about payment options
• **Shipping details** - Understand delivery processes
• **Safety tips** - Shop securely and avoid scams
• **Returns & refunds** - Know your rights as a buyer
• **Account help** - Manage your Jiji account

**Need specific help?** Try asking:
• "How do I pay on Jiji?"
• "Is Jiji safe to use?"
• "How do returns work?"
• "How to create an account?"

**Or search for products:** "Find Samsung phones under GHS 2000"`

	contactAnswer = `**Contact Jiji Support:**

• **Website:** [jiji.com.gh](https://jiji.com.gh)
• **Help Center:** Available on the website
• **Phone:** Check website for current contact numbers
• **Email:** Support available through the platform

**For Urgent Issues:**
• Use the "Report" button on problematic listings
• Contact customer service through your account
• Use the live chat feature on the website`
)

// FAQResponder answers support questions from a fixed knowledge base
type FAQResponder struct{}

// NewFAQResponder creates a new FAQ responder
func NewFAQResponder() *FAQResponder {
	return &FAQResponder{}
}

// Match returns the FAQ category with the most keyword hits, or "" when none hit
func (f *FAQResponder) Match(query string) string {
	lower := strings.ToLower(query)
	best, bestCount := "", 0
	for _, entry := range faqTable {
		count := 0
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = entry.category, count
		}
	}
	return best
}

// Answer returns the best answer for a support question
func (f *FAQResponder) Answer(query string) string {
	if category := f.Match(query); category != "" {
		for _, entry := range faqTable {
			if entry.category == category {
				return entry.answer
			}
		}
	}

	lower := strings.ToLower(query)
	if containsAnyWord(lower, "how", "what", "why", "when", "where") {
		if strings.Contains(lower, "jiji") {
			return aboutJijiAnswer
		}
		if containsAnyWord(lower, "work", "use", "buy") {
			return howToBuyAnswer
		}
	}

	return helpMenuAnswer
}

// ContactInfo returns marketplace support contacts
func (f *FAQResponder) ContactInfo() string {
	return contactAnswer
}

// containsAnyWord reports substring containment of any of words
func containsAnyWord(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
