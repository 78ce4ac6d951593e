package constant

// AsciiArtLogo is the application's banner shown in the root help.
const AsciiArtLogo = `
             __
   _________/ /___ ___  ____  _____
  / ___/ __  / __ '__ \/ __ \/__  /
 (__  ) /_/ / / / / / / /_/ /___/ /
/____/\__,_/_/ /_/ /_/ .___//____/
                    /_/`
