package chatbot

const bologneseReply = `# Spaghetti Bolognese

**Ingredients:**
- 500g ground beef
- 1 onion, finely chopped
- 2 cloves garlic, minced
- 1 carrot and 1 celery stalk, diced
- 400g crushed tomatoes
- 2 tbsp tomato paste
- 250ml beef stock
- Dried oregano and basil
- 500g spaghetti
- Parmesan to serve

**Instructions:**
1. Soften the onion in olive oil over medium heat, then add the garlic.
2. Brown the beef, breaking it up as it cooks.
3. Add carrot and celery and cook for 5 minutes.
4. Stir in tomato paste, tomatoes, stock and herbs. Season well.
5. Simmer for at least 30 minutes.
6. Cook the spaghetti, drain, and serve under the sauce with Parmesan.

The sauce keeps well and tastes even better the next day.`

const roastChickenReply = `# Herb Roasted Chicken

**Ingredients:**
- 1 whole chicken (about 2kg)
- 3 tbsp olive oil
- 4 cloves garlic, minced
- Fresh rosemary and thyme, chopped
- 1 lemon
- Salt and black pepper
- 1 onion, 2 carrots and 2 celery stalks, roughly chopped

**Instructions:**
1. Heat the oven to 220°C (425°F).
2. Mix oil, garlic, herbs, lemon zest, salt and pepper.
3. Pat the chicken dry and rub the mixture over and under the skin.
4. Put the lemon quarters inside and set the bird on the vegetables.
5. Roast about 80 minutes, until the thickest part reaches 74°C (165°F).
6. Rest for 15 minutes before carving.

Leftovers make great sandwiches and salads.`

const vegetableCurryReply = `# Vegetable Curry

**Ingredients:**
- 2 tbsp oil
- 1 onion, diced
- 3 cloves garlic and a thumb of ginger, grated
- 2 tbsp curry powder, 1 tsp cumin, 1 tsp coriander
- 400g diced tomatoes
- 400ml coconut milk
- 1 sweet potato, cubed
- 1 small cauliflower, in florets
- 1 can chickpeas, drained
- 2 handfuls spinach
- Fresh cilantro and rice to serve

**Instructions:**
1. Cook the onion in oil until soft, then add garlic and ginger.
2. Toast the spices for 30 seconds.
3. Add tomatoes and coconut milk and bring to a simmer.
4. Add sweet potato and cauliflower, cover, and cook 15 minutes.
5. Stir in chickpeas, then spinach until wilted. Salt to taste.
6. Serve over rice with cilantro.

It is fully vegan and freezes well.`

const recipeQuestionsReply = `Happy to help you put a recipe together! Tell me a little more:

1. Which dish or ingredients do you have in mind?
2. Any dietary restrictions?
3. How much time do you have?

With that I can suggest ingredients and step-by-step instructions.`

const steakReply = `# Cooking a Steak

**Before you start:**
1. Take the steak out of the fridge 30 to 60 minutes ahead.
2. Pat it dry and season both sides generously.

**Pan to oven:**
1. Heat the oven to 200°C (400°F) and a cast-iron pan until smoking.
2. Add a little high smoke point oil and sear 2 to 3 minutes per side.
3. Add butter, garlic and herbs, then move the pan to the oven.
4. Cook 4 to 5 minutes for medium-rare (54°C / 130°F), longer for more done.
5. Rest for 5 to 10 minutes and slice against the grain.

A meat thermometer takes the guesswork out of it.`

const riceReply = `# Fluffy White Rice

**Ingredients:**
- 1 cup long-grain rice
- 1¾ cups water
- ½ tsp salt

**Stovetop:**
1. Rinse the rice until the water runs clear.
2. Bring water and salt to a boil and add the rice.
3. Cover, lower the heat, and simmer for 18 minutes.
4. Leave it covered off the heat for 5 minutes, then fluff with a fork.

**If it goes wrong:**
- Too firm: add 2 tbsp water and steam 5 more minutes.
- Too wet: cook uncovered on low for a few minutes.

Cooking it in stock instead of water adds flavor.`

const techniqueQuestionsReply = `I can walk you through it! Which food or dish do you want to cook? I can cover:

- Preparation
- Temperatures and times
- Tips for the best result
- Fixing common problems`

const substitutionsReply = `# Ingredient Substitutions

**Dairy:**
- **Buttermilk:** 1 cup milk with 1 tbsp lemon juice, rested 5 minutes
- **Sour cream:** Greek yogurt, same amount
- **Milk:** oat, soy or almond milk, same amount

**Baking:**
- **Baking powder (1 tsp):** ¼ tsp baking soda with ½ tsp cream of tartar
- **Brown sugar (1 cup):** 1 cup white sugar with 1 tbsp molasses
- **Egg (1):** 1 tbsp ground flaxseed with 3 tbsp water

**Herbs and spices:**
- **Fresh herbs:** 1 tbsp fresh equals 1 tsp dried
- **Allspice:** cinnamon, nutmeg and cloves in equal parts

Swaps can change texture a little, but they will get the dish done.`

const nutritionReply = `# Nutrition Basics

**Protein (per 100g):**
- Chicken breast: 165 kcal, 31g protein
- Salmon: 206 kcal, 22g protein
- Tofu: 76 kcal, 8g protein
- Lentils (cooked): 116 kcal, 9g protein, 8g fiber

**Vegetables (per cup):**
- Broccoli: 31 kcal
- Spinach: 7 kcal
- Sweet potato: 114 kcal

**Grains (per cup cooked):**
- Brown rice: 216 kcal
- Quinoa: 222 kcal

**Healthy habits:**
1. Fill half the plate with vegetables and fruit.
2. Prefer whole grains.
3. Include some protein at every meal.
4. Drink plenty of water.

Want numbers for a specific food?`

const tipsReply = `# Cooking Tips

**Preparation:**
1. Measure and prep everything before the heat goes on.
2. Keep your knives sharp.
3. Read the whole recipe first.

**Technique:**
1. Rest meat after cooking.
2. Preheat the pan before food goes in.
3. Do not crowd the pan; cook in batches.

**Flavor:**
1. A splash of acid brightens a flat dish.
2. Add hardy herbs early and delicate herbs at the end.
3. Deglaze the pan to keep the browned bits.

Taste as you go and adjust the seasoning.`

const fallbackReply = `Thanks for your question about "%s".

I can help with:
- Recipes with ingredients and instructions
- Cooking techniques
- Ingredient substitutions
- Nutrition and healthy eating
- Kitchen tips

Could you tell me a bit more about what you are looking for?`
